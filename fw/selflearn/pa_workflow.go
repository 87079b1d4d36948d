package selflearn

import (
	"time"

	"github.com/ndnself/forwarder/core"
	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/enc"
	"github.com/ndnself/forwarder/pa"
	"github.com/ndnself/forwarder/rib"
	"github.com/ndnself/forwarder/table"
)

// asyncProcessData dispatches a Prefix Announcement lookup to the rib
// executor and, once found, marshals the result back to main (§4.8).
//
// The continuation captures only pitEntry.Token() and inFace's numeric ID,
// never the PitEntry or Face themselves, so a PIT entry satisfied and
// removed by another Data path before the rib callback returns is detected
// via a failed Resolve rather than dereferenced (scenario 6).
func (s *Strategy) asyncProcessData(pitEntry table.PitEntry, inFace uint64, pkt *defn.Pkt) {
	pitEntry.SetExpirationTime(time.Now().Add(time.Second))

	token := pitEntry.Token()
	name := pkt.Data.Name
	data := pkt.Data

	s.rib.SlFindAnn(name, func(found *pa.PrefixAnnouncement, ok bool) {
		if !ok {
			core.Log.Debug(s, "no prefix announcement available, dropping data", "name", name.String())
			return
		}
		s.thread.Post(func() {
			live, aliveOK := s.thread.Pit().Resolve(token)
			inFaceFace := s.thread.Faces().Get(inFace)
			if !aliveOK || inFaceFace == nil {
				core.Log.Debug(s, "stale continuation, dropping", "name", name.String())
				return
			}
			data.PrefixAnnouncementTag = found
			s.SendDataToAll(&defn.Pkt{Name: data.Name, Data: data}, live, 0)
			live.SetExpirationTime(time.Now())
		})
	})
}

// addRoute installs a route for a learned Prefix Announcement (§4.8): post
// to rib, log the result only.
func (s *Strategy) addRoute(pitEntry table.PitEntry, inFace uint64, data *defn.Data, announcement *pa.PrefixAnnouncement) {
	s.rib.SlAnnounce(announcement, inFace, RouteRenewLifetime, func(res rib.Result) {
		if res.OK {
			core.Log.Debug(s, "installed route from prefix announcement", "prefix", announcement.Prefix.String(), "faceid", inFace)
		} else {
			core.Log.Debug(s, "failed to install route", "prefix", announcement.Prefix.String(), "reason", res.Reason)
		}
	})
}

// renewRoute instructs the rib to adjust a route's expiration; maxLifetime
// = 0 expires it immediately (§4.6, §4.8).
func (s *Strategy) renewRoute(name enc.Name, inFace uint64, maxLifetime time.Duration) {
	s.rib.SlRenew(name, inFace, maxLifetime, func(res rib.Result) {
		core.Log.Debug(s, "renew route result", "name", name.String(), "ok", res.OK)
	})
}

package selflearn

import (
	"time"

	"github.com/ndnself/forwarder/core"
	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/face"
	"github.com/ndnself/forwarder/table"
)

// promoteMultiAccess implements the multi-access promotion protocol
// (§4.7): create an on-demand unicast face to the Data's endpoint, attach
// a route to it on success, and forward Data regardless of outcome. The
// connect callbacks capture only the PIT entry's Token; if the entry has
// been removed by the time they run, the Data is dropped.
func (s *Strategy) promoteMultiAccess(pkt *defn.Pkt, pitEntry table.PitEntry, ingress uint64) {
	pitEntry.SetExpirationTime(time.Now().Add(time.Second))

	inFace := s.thread.Faces().Get(ingress)
	if inFace == nil {
		core.Log.Debug(s, "promotion: ingress face vanished", "faceid", ingress)
		s.SendDataToAll(pkt, pitEntry, 0)
		return
	}
	ch := inFace.Channel()
	if ch == nil {
		core.Log.Warn(s, "multi-access face has no channel, cannot promote", "faceid", ingress)
		s.SendDataToAll(pkt, pitEntry, 0)
		return
	}

	announcement := pkt.Data.PrefixAnnouncementTag
	endpoint := pkt.Endpoint
	token := pitEntry.Token()

	ch.Connect(endpoint, face.DefaultFaceParams(defn.PersistencyOnDemand),
		func(newFace face.Face) {
			s.thread.Post(func() {
				id := s.thread.Faces().Add(newFace)
				live, ok := s.thread.Pit().Resolve(token)
				if !ok {
					core.Log.Debug(s, "promotion: stale continuation, dropping", "endpoint", endpoint.String())
					return
				}
				s.addRoute(live, id, pkt.Data, announcement)
				s.SendDataToAll(pkt, live, 0)
			})
		},
		func(err error) {
			s.thread.Post(func() {
				core.Log.Debug(s, "promotion failed, forwarding without route", "endpoint", endpoint.String(), "err", err)
				if live, ok := s.thread.Pit().Resolve(token); ok {
					s.SendDataToAll(pkt, live, 0)
				}
			})
		},
	)
}

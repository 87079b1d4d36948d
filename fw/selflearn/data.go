package selflearn

import (
	"time"

	"github.com/ndnself/forwarder/core"
	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/table"
)

// AfterContentStoreHit is the onCsHit trigger (§4.4).
func (s *Strategy) AfterContentStoreHit(pkt *defn.Pkt, pitEntry table.PitEntry, ingress uint64) {
	inFace := s.thread.Faces().Get(ingress)
	if inFace != nil && inFace.Scope() == defn.Local {
		s.SendData(pkt, pitEntry, ingress)
		return
	}
	if !pitEntry.Interest().NonDiscoveryTag && pkt.Data.PrefixAnnouncementTag == nil {
		s.asyncProcessData(pitEntry, ingress, pkt)
		return
	}
	s.SendData(pkt, pitEntry, ingress)
}

// AfterReceiveData is the onData trigger (§4.5).
func (s *Strategy) AfterReceiveData(pkt *defn.Pkt, pitEntry table.PitEntry, ingress uint64) {
	outRec, ok := pitEntry.OutRecord(ingress)
	if !ok {
		core.Log.Debug(s, "data with no matching out-record, dropping", "name", pkt.Data.Name.String())
		return
	}

	if outRec.Info.IsNonDiscoveryInterest {
		if !s.needPrefixAnn(pitEntry) {
			s.SendDataToAll(pkt, pitEntry, 0)
		} else {
			s.asyncProcessData(pitEntry, ingress, pkt)
		}
		return
	}

	// The outgoing Interest was discovery.
	if pkt.Data.PrefixAnnouncementTag != nil {
		inFace := s.thread.Faces().Get(ingress)
		if inFace != nil && inFace.LinkType() == defn.MultiAccess {
			// Promotion forwards to all downstreams itself once the
			// asynchronous face creation resolves (§4.7).
			s.promoteMultiAccess(pkt, pitEntry, ingress)
			return
		}
		s.addRoute(pitEntry, ingress, pkt.Data, pkt.Data.PrefixAnnouncementTag)
	}
	s.SendDataToAll(pkt, pitEntry, 0)
}

// needPrefixAnn (§4.5.1).
func (s *Strategy) needPrefixAnn(pitEntry table.PitEntry) bool {
	now := time.Now()
	faces := s.thread.Faces()

	hasDiscovery := false
	allLocal := true
	for faceID, rec := range pitEntry.InRecords() {
		if rec.ExpirationTime.Before(now) {
			continue
		}
		if !rec.Info.IsNonDiscoveryInterest {
			hasDiscovery = true
		}
		f := faces.Get(faceID)
		if f == nil || f.Scope() != defn.Local {
			allLocal = false
		}
	}
	return hasDiscovery && !allLocal
}

package selflearn

import (
	"time"

	"github.com/ndnself/forwarder/core"
	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/table"
)

// AfterReceiveInterest is the onInterest trigger (§4.3).
func (s *Strategy) AfterReceiveInterest(pkt *defn.Pkt, pitEntry table.PitEntry, ingress uint64, nexthops []*table.FibNextHopEntry) {
	now := time.Now()
	switch Classify(pitEntry, now) {
	case DecisionSuppress:
		return

	case DecisionNew:
		if nh, ok := SelectFresh(nexthops, ingress, pkt.Interest, pitEntry, s.thread.Faces()); ok {
			s.hasUntriedNexthopHandler(pkt, pitEntry, ingress, nh)
		} else {
			s.noNexthopHandler(pkt, pitEntry, ingress)
		}

	case DecisionForward:
		if nh, ok := SelectUntried(nexthops, ingress, pkt.Interest, pitEntry, s.thread.Faces(), now); ok {
			s.hasUntriedNexthopHandler(pkt, pitEntry, ingress, nh)
		} else {
			s.allNexthopTriedHandler(pkt, pitEntry, ingress, nexthops)
		}
	}
}

// noNexthopHandler (§4.3.1): no eligible nexthop was found for a fresh
// Interest arrival.
func (s *Strategy) noNexthopHandler(pkt *defn.Pkt, pitEntry table.PitEntry, ingress uint64) {
	rec, _ := pitEntry.InRecord(ingress)
	if rec != nil {
		rec.Info.IsNonDiscoveryInterest = pkt.Interest.NonDiscoveryTag
	}

	if pkt.Interest.NonDiscoveryTag {
		core.Log.Debug(s, "no route for non-discovery interest", "name", pkt.Interest.Name.String())
		s.SendNack(pitEntry, ingress, defn.NackNoRoute)
		s.RejectPendingInterest(pitEntry)
		return
	}
	s.broadcastInterest(pkt, pitEntry, ingress)
}

// hasUntriedNexthopHandler (§4.3.2).
func (s *Strategy) hasUntriedNexthopHandler(pkt *defn.Pkt, pitEntry table.PitEntry, ingress uint64, outFace uint64) {
	rec, _ := pitEntry.InRecord(ingress)
	if rec != nil {
		rec.Info.IsNonDiscoveryInterest = pkt.Interest.NonDiscoveryTag
	}

	if !pkt.Interest.NonDiscoveryTag {
		pkt.Interest.NonDiscoveryTag = true
	}

	if !s.SendInterest(pkt, pitEntry, outFace, ingress) {
		return
	}
	if out, ok := pitEntry.OutRecord(outFace); ok {
		out.Info.IsNonDiscoveryInterest = true
	}
}

// allNexthopTriedHandler (§4.3.3): round-robin retry once every nexthop has
// an out-record.
func (s *Strategy) allNexthopTriedHandler(pkt *defn.Pkt, pitEntry table.PitEntry, ingress uint64, nexthops []*table.FibNextHopEntry) {
	outFace, ok := SelectEarliestOutRecord(nexthops, ingress, pkt.Interest, pitEntry, s.thread.Faces())
	if !ok {
		core.Log.Debug(s, "all nexthops tried, none eligible for retry", "name", pkt.Interest.Name.String())
		return
	}
	s.SendInterest(pkt, pitEntry, outFace, ingress)
}

// broadcastInterest (§4.3.4): flood a discovery Interest to every
// non-local, non-ingress (unless ad-hoc) face.
func (s *Strategy) broadcastInterest(pkt *defn.Pkt, pitEntry table.PitEntry, ingress uint64) {
	for _, f := range s.thread.Faces().GetAllOrdered() {
		if f.FaceID() == ingress && f.LinkType() != defn.AdHoc {
			continue
		}
		if violatesScope(pkt.Interest, f) {
			continue
		}
		if f.Scope() == defn.Local {
			continue
		}
		if !s.SendInterest(pkt, pitEntry, f.FaceID(), ingress) {
			continue
		}
		if out, ok := pitEntry.OutRecord(f.FaceID()); ok {
			out.Info.IsNonDiscoveryInterest = false
		}
	}
}

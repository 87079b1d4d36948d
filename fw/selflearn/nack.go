package selflearn

import (
	"time"

	"github.com/ndnself/forwarder/core"
	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/table"
)

// AfterReceiveNack is the onNack trigger (§4.6).
func (s *Strategy) AfterReceiveNack(pkt *defn.Pkt, pitEntry table.PitEntry, ingress uint64) {
	if pkt.Nack.Reason != defn.NackNoRoute {
		s.DefaultProcessNack(pitEntry, pkt.Nack.Reason)
		return
	}

	s.renewRoute(pitEntry.Name(), ingress, 0)

	outRec, ok := pitEntry.OutRecord(ingress)
	if !ok {
		core.Log.Debug(s, "nack with no matching out-record", "name", pitEntry.Name().String())
		return
	}

	if !outRec.Info.IsNonDiscoveryInterest {
		// A discovery out-record receiving NO_ROUTE is not expected in a
		// correctly behaving network; no action (§4.6.4).
		return
	}

	ipkt := &defn.Pkt{Name: pitEntry.Name(), Interest: pitEntry.Interest(), IncomingFaceID: ingress}

	nexthops := s.thread.Fib().Lookup(pitEntry.Name())
	if nh, ok := SelectUntried(nexthops, ingress, pitEntry.Interest(), pitEntry, s.thread.Faces(), time.Now()); ok {
		s.hasUntriedNexthopHandler(ipkt, pitEntry, ingress, nh)
		return
	}

	if s.isThisConsumer(pitEntry) {
		pitEntry.Interest().NonDiscoveryTag = false
		for _, rec := range pitEntry.InRecords() {
			rec.Info.IsNonDiscoveryInterest = false
		}
		// Reflood on the consumer's own in-record face, not the Nack's
		// ingress face (§4.3.4, mirroring the original's
		// pitEntry->in_begin()->getFace()): broadcastInterest excludes
		// whichever face it's given, and it must be the downstream the
		// Interest came in on, not the upstream the Nack came in on.
		s.broadcastInterest(ipkt, pitEntry, soleInRecordFace(pitEntry))
		return
	}

	s.DefaultProcessNack(pitEntry, pkt.Nack.Reason)
}

// isThisConsumer reports whether this node is acting as the sole consumer
// of pitEntry: exactly one in-record, on a local face.
func (s *Strategy) isThisConsumer(pitEntry table.PitEntry) bool {
	recs := pitEntry.InRecords()
	if len(recs) != 1 {
		return false
	}
	faces := s.thread.Faces()
	for faceID := range recs {
		f := faces.Get(faceID)
		return f != nil && f.Scope() == defn.Local
	}
	return false
}

// soleInRecordFace returns pitEntry's single in-record face. Only valid to
// call when isThisConsumer(pitEntry) holds.
func soleInRecordFace(pitEntry table.PitEntry) uint64 {
	for faceID := range pitEntry.InRecords() {
		return faceID
	}
	return 0
}

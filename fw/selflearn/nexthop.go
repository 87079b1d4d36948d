package selflearn

import (
	"time"

	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/face"
	"github.com/ndnself/forwarder/table"
)

// eligible reports whether nexthop is usable for interest, independent of
// whether it has already been tried (§4.2: "not the ingress face... would
// not violate Interest scope").
func eligible(nexthop uint64, ingressFaceID uint64, interest *defn.Interest, faces *face.Table) (face.Face, bool) {
	outFace := faces.Get(nexthop)
	if outFace == nil {
		return nil, false
	}
	if nexthop == ingressFaceID && outFace.LinkType() != defn.AdHoc {
		return nil, false
	}
	if violatesScope(interest, outFace) {
		return nil, false
	}
	return outFace, true
}

// SelectFresh implements fresh-mode selection (§4.2): the lowest-cost
// eligible nexthop with no existing out-record.
func SelectFresh(nexthops []*table.FibNextHopEntry, ingressFaceID uint64, interest *defn.Interest, pitEntry table.PitEntry, faces *face.Table) (uint64, bool) {
	for _, nh := range nexthops {
		if _, ok := eligible(nh.Nexthop, ingressFaceID, interest, faces); !ok {
			continue
		}
		if _, hasOut := pitEntry.OutRecord(nh.Nexthop); hasOut {
			continue
		}
		return nh.Nexthop, true
	}
	return 0, false
}

// retryThreshold is the freshness threshold computed from the Interest
// lifetime and the current suppression window (§4.2 retry mode).
func retryThreshold(interest *defn.Interest, pitEntry table.PitEntry) time.Duration {
	window := pitEntry.Suppression().Window
	if window <= 0 {
		window = RetxSuppressionInitial
	}
	if interest.InterestLifetime > 0 && interest.InterestLifetime < window {
		return interest.InterestLifetime
	}
	return window
}

// SelectUntried implements retry-mode selection (§4.2): the lowest-cost
// eligible nexthop whose out-record, if any, was last sent before the
// freshness threshold.
func SelectUntried(nexthops []*table.FibNextHopEntry, ingressFaceID uint64, interest *defn.Interest, pitEntry table.PitEntry, faces *face.Table, now time.Time) (uint64, bool) {
	threshold := retryThreshold(interest, pitEntry)
	for _, nh := range nexthops {
		if _, ok := eligible(nh.Nexthop, ingressFaceID, interest, faces); !ok {
			continue
		}
		rec, hasOut := pitEntry.OutRecord(nh.Nexthop)
		if !hasOut {
			return nh.Nexthop, true
		}
		if now.Sub(rec.LatestTimestamp) >= threshold {
			return nh.Nexthop, true
		}
	}
	return 0, false
}

// SelectEarliestOutRecord implements the round-robin retry variant (§4.2,
// §4.3.3): among eligible nexthops that already have an out-record, the
// one whose out-record was sent longest ago.
func SelectEarliestOutRecord(nexthops []*table.FibNextHopEntry, ingressFaceID uint64, interest *defn.Interest, pitEntry table.PitEntry, faces *face.Table) (uint64, bool) {
	var best uint64
	var bestTime time.Time
	found := false
	for _, nh := range nexthops {
		if _, ok := eligible(nh.Nexthop, ingressFaceID, interest, faces); !ok {
			continue
		}
		rec, hasOut := pitEntry.OutRecord(nh.Nexthop)
		if !hasOut {
			continue
		}
		if !found || rec.LatestTimestamp.Before(bestTime) {
			best = nh.Nexthop
			bestTime = rec.LatestTimestamp
			found = true
		}
	}
	return best, found
}

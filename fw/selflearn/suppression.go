package selflearn

import (
	"time"

	"github.com/ndnself/forwarder/table"
)

// Decision is the retransmission suppressor's classification of an
// incoming Interest relative to a PIT entry (§4.1).
type Decision int

const (
	DecisionNew Decision = iota
	DecisionForward
	DecisionSuppress
)

// RetxSuppressionInitial is W0, the suppression window used for the first
// retransmission decision on a PIT entry. RetxSuppressionMax is Wmax, the
// cap the exponential window never exceeds. Both default to the spec
// constants (10ms/250ms) but are variables, not consts, so
// Strategy.Instantiate can apply core.Config's fw.retx_suppression
// overrides at startup.
var (
	RetxSuppressionInitial = 10 * time.Millisecond
	RetxSuppressionMax     = 250 * time.Millisecond
)

// RetxTriggerBroadcastCount is reserved for a future retry-triggers-
// reflood policy (source contains it commented out); exposed but not read
// by any code path in this implementation (SPEC_FULL §9).
const RetxTriggerBroadcastCount = 7

// Classify applies the exponential suppression window to pitEntry's
// scratch state for an Interest arriving now, returning the decision and
// mutating the window as a side effect of a FORWARD/NEW decision
// (SUPPRESS never mutates state).
//
// Ties are broken by treating equal-time as "within window" (P1).
func Classify(pitEntry table.PitEntry, now time.Time) Decision {
	s := pitEntry.Suppression()
	if !s.Decided {
		s.Decided = true
		s.Last = now
		s.Window = RetxSuppressionInitial
		return DecisionNew
	}
	if now.Sub(s.Last) <= s.Window {
		return DecisionSuppress
	}
	s.Last = now
	s.Window *= 2
	if s.Window > RetxSuppressionMax {
		s.Window = RetxSuppressionMax
	}
	return DecisionForward
}

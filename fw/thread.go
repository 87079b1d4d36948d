package fw

import (
	"time"

	"github.com/ndnself/forwarder/core"
	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/enc"
	"github.com/ndnself/forwarder/executor"
	"github.com/ndnself/forwarder/face"
	"github.com/ndnself/forwarder/table"
)

// Thread is the main forwarding executor: it owns the PIT, FIB, and face
// table, and dispatches PIT events to the registered Strategy. Adapted
// from the teacher's fw.Thread, whose channel-based Run loop is
// generalized here into executor.Executor, and which gains a Nack
// pipeline the teacher never had at all.
type Thread struct {
	exec     *executor.Executor
	pit      *table.PitTable
	fib      *table.FibTable
	faces    *face.Table
	strategy Strategy

	Counters defn.FWThreadCounters
}

func NewThread(queueSize int, fib *table.FibTable, faces *face.Table) *Thread {
	return &Thread{
		exec:  executor.New(queueSize),
		pit:   table.NewPitTable(),
		fib:   fib,
		faces: faces,
	}
}

func (t *Thread) String() string { return "fw-thread" }

// SetStrategy installs the (single, in this repository) forwarding
// strategy and instantiates it against this thread.
func (t *Thread) SetStrategy(s Strategy) {
	t.strategy = s
	s.Instantiate(t)
}

func (t *Thread) Pit() *table.PitTable { return t.pit }
func (t *Thread) Fib() *table.FibTable { return t.fib }
func (t *Thread) Faces() *face.Table   { return t.faces }

func (t *Thread) Run() { t.exec.Run() }
func (t *Thread) Stop() { t.exec.Stop() }

// QueueInterest posts processIncomingInterest to this thread's executor.
func (t *Thread) QueueInterest(pkt *defn.Pkt) {
	t.exec.Post(func() { t.processIncomingInterest(pkt) })
}

// QueueData posts processIncomingData to this thread's executor.
func (t *Thread) QueueData(pkt *defn.Pkt) {
	t.exec.Post(func() { t.processIncomingData(pkt) })
}

// QueueNack posts processIncomingNack to this thread's executor.
func (t *Thread) QueueNack(pkt *defn.Pkt) {
	t.exec.Post(func() { t.processIncomingNack(pkt) })
}

// Post runs an arbitrary closure on this thread's executor; used by
// cross-executor continuations (e.g. fw/selflearn's PA workflow) to marshal
// results back onto main.
func (t *Thread) Post(task func()) { t.exec.Post(task) }

func (t *Thread) processIncomingInterest(pkt *defn.Pkt) {
	interest := pkt.Interest
	t.Counters.NInInterests++

	pitEntry, isNew := t.pit.InsertInterest(interest)
	if isNew {
		pitEntry.SetExpirationTime(time.Now().Add(interest.InterestLifetime))
	}
	pitEntry.InsertInRecord(interest, pkt.IncomingFaceID, nil)

	nexthops := t.fib.Lookup(interest.Name)
	// Reflection prevention (P2): never offer the ingress face back as a
	// nexthop unless it is ad-hoc.
	inFace := t.faces.Get(pkt.IncomingFaceID)
	filtered := make([]*table.FibNextHopEntry, 0, len(nexthops))
	for _, nh := range nexthops {
		if nh.Nexthop == pkt.IncomingFaceID {
			if inFace == nil || inFace.LinkType() != defn.AdHoc {
				continue
			}
		}
		filtered = append(filtered, nh)
	}

	if t.strategy == nil {
		core.Log.Error(t, "no strategy installed, dropping interest", "name", interest.Name.String())
		return
	}
	t.strategy.AfterReceiveInterest(pkt, pitEntry, pkt.IncomingFaceID, filtered)
}

// processOutgoingInterest is the strategy emission API's SendInterest
// backend: reflection check, out-record bookkeeping, and the actual send.
func (t *Thread) processOutgoingInterest(pkt *defn.Pkt, pitEntry table.PitEntry, nexthop uint64, inFace uint64) bool {
	outFace := t.faces.Get(nexthop)
	if outFace == nil {
		core.Log.Warn(t, "cannot send interest on unknown face", "faceid", nexthop)
		return false
	}
	if nexthop == inFace && outFace.LinkType() != defn.AdHoc {
		core.Log.Warn(t, "refusing to reflect interest", "faceid", nexthop)
		return false
	}
	if hop, ok := pkt.Interest.HopLimit.Unwrap(), pkt.Interest.HopLimit.IsSet(); ok {
		if hop == 0 {
			core.Log.Debug(t, "hop limit reached, not forwarding", "name", pkt.Interest.Name.String())
			return false
		}
		pkt.Interest.HopLimit.Set(hop - 1)
	}
	pitEntry.InsertOutRecord(pkt.Interest, nexthop)
	t.Counters.NOutInterests++
	outFace.SendPacket(*pkt)
	return true
}

func (t *Thread) processOutgoingData(pkt *defn.Pkt, nexthop uint64) {
	outFace := t.faces.Get(nexthop)
	if outFace == nil {
		core.Log.Warn(t, "cannot send data on unknown face", "faceid", nexthop)
		return
	}
	t.Counters.NOutData++
	outFace.SendPacket(*pkt)
}

func (t *Thread) processOutgoingNack(pitEntry table.PitEntry, ingress uint64, reason defn.NackReason) {
	outFace := t.faces.Get(ingress)
	if outFace == nil {
		core.Log.Warn(t, "cannot send nack on unknown face", "faceid", ingress)
		return
	}
	t.Counters.NOutNacks++
	outFace.SendPacket(defn.Pkt{
		Name: pitEntry.Name(),
		Nack: &defn.Nack{Interest: pitEntry.Interest(), Reason: reason},
	})
}

func (t *Thread) processIncomingData(pkt *defn.Pkt) {
	t.Counters.NInData++

	pitEntry, ok := t.pit.FindByName(pkt.Data.Name)
	if !ok {
		core.Log.Debug(t, "data with no matching pit entry", "name", pkt.Data.Name.String())
		return
	}
	if t.strategy == nil {
		return
	}
	t.strategy.AfterReceiveData(pkt, pitEntry, pkt.IncomingFaceID)
}

func (t *Thread) processIncomingNack(pkt *defn.Pkt) {
	t.Counters.NInNacks++

	pitEntry, ok := t.pit.FindByName(pkt.Nack.Interest.Name)
	if !ok {
		core.Log.Debug(t, "nack with no matching pit entry", "name", pkt.Nack.Interest.Name.String())
		return
	}
	if t.strategy == nil {
		return
	}
	t.strategy.AfterReceiveNack(pkt, pitEntry, pkt.IncomingFaceID)
}

// SweepExpired removes PIT entries whose expiration time has passed and
// that have no remaining unexpired in-record (invariant 3). Intended to be called periodically on this thread's
// executor.
func (t *Thread) SweepExpired() {
	t.pit.RemoveExpired(time.Now())
}

// ParseStrategyName validates an instance name against the expected
// strategy component and version, rejecting any extra parameters (§6,
// §7: configuration errors fail fast at construction).
func ParseStrategyName(name enc.Name, wantComponent string, wantVersion uint64) error {
	expect := defn.STRATEGY_PREFIX.
		Append(enc.NewGenericComponent(wantComponent)).
		Append(defn.NewVersionComponent(wantVersion))
	if len(name) != len(expect) {
		return errInvalidStrategyName
	}
	for i := range expect {
		if !name[i].Equal(expect[i]) {
			return errInvalidStrategyName
		}
	}
	return nil
}

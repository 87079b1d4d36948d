// Package fw hosts the forwarding thread and the Strategy interface it
// dispatches PIT events to, adapted from the teacher's fw/fw package.
package fw

import (
	"fmt"
	"time"

	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/enc"
	"github.com/ndnself/forwarder/table"
)

// Strategy represents a forwarding strategy. Modeled as an interface the
// surrounding forwarder implements and passes to, rather than a subclass
// hierarchy (SPEC_FULL §9).
type Strategy interface {
	Instantiate(thread *Thread)
	String() string
	GetName() enc.Name

	AfterContentStoreHit(pkt *defn.Pkt, pitEntry table.PitEntry, inFace uint64)
	AfterReceiveData(pkt *defn.Pkt, pitEntry table.PitEntry, inFace uint64)
	AfterReceiveInterest(pkt *defn.Pkt, pitEntry table.PitEntry, inFace uint64, nexthops []*table.FibNextHopEntry)
	AfterReceiveNack(pkt *defn.Pkt, pitEntry table.PitEntry, inFace uint64)
	BeforeSatisfyInterest(pitEntry table.PitEntry, inFace uint64)
}

// StrategyBase provides the strategy emission API (§6) common to every
// strategy: SendInterest, SendData/SendDataToAll, SendNack and
// RejectPendingInterest. The teacher's StrategyBase has no Nack support at
// all (its Thread never handles Nacks); both are added here since this
// repository's strategy requires them.
type StrategyBase struct {
	thread  *Thread
	name    enc.Name
	version uint64
	logName string
}

// NewStrategyBase initializes the base; name must carry no parameters
// (enforced by callers via ParseStrategyName).
func (s *StrategyBase) NewStrategyBase(thread *Thread, name string, version uint64) {
	s.thread = thread
	s.name = defn.STRATEGY_PREFIX.
		Append(enc.NewGenericComponent(name)).
		Append(defn.NewVersionComponent(version))
	s.version = version
	s.logName = name
}

func (s *StrategyBase) String() string {
	return fmt.Sprintf("%s (v=%d)", s.logName, s.version)
}

func (s *StrategyBase) GetName() enc.Name { return s.name }

// SendInterest sends an Interest on the specified face, recording an
// out-record on pitEntry. Returns false if the face is unknown.
func (s *StrategyBase) SendInterest(pkt *defn.Pkt, pitEntry table.PitEntry, nexthop uint64, inFace uint64) bool {
	return s.thread.processOutgoingInterest(pkt, pitEntry, nexthop, inFace)
}

// SendData forwards Data to a single downstream, consuming (and removing)
// its in-record.
func (s *StrategyBase) SendData(pkt *defn.Pkt, pitEntry table.PitEntry, nexthop uint64) {
	s.thread.processOutgoingData(pkt, nexthop)
	pitEntry.RemoveInRecord(nexthop)
}

// SendDataToAll forwards Data to every unexpired downstream in-record
// except skipFace (typically the face the strategy is about to promote or
// has already special-cased), per §4.5/§4.7's "forward Data to all
// downstreams".
func (s *StrategyBase) SendDataToAll(pkt *defn.Pkt, pitEntry table.PitEntry, skipFace uint64) {
	now := time.Now()
	for face, rec := range pitEntry.InRecords() {
		if face == skipFace {
			continue
		}
		if rec.ExpirationTime.Before(now) {
			continue
		}
		s.thread.processOutgoingData(pkt, face)
	}
}

// SendNack sends a Nack with reason to the ingress face, consuming its
// in-record.
func (s *StrategyBase) SendNack(pitEntry table.PitEntry, ingress uint64, reason defn.NackReason) {
	s.thread.processOutgoingNack(pitEntry, ingress, reason)
	pitEntry.RemoveInRecord(ingress)
}

// RejectPendingInterest marks the PIT entry rejected; the forwarding
// thread's expiry sweep will remove it once no in-record remains.
func (s *StrategyBase) RejectPendingInterest(pitEntry table.PitEntry) {
	pitEntry.SetRejected(true)
}

// DefaultProcessNack is the default Nack processor every strategy falls
// back to when it has no special handling for a reason code (§4.6: "defer
// to the default Nack processor"): it propagates the Nack to every
// remaining downstream in-record.
func (s *StrategyBase) DefaultProcessNack(pitEntry table.PitEntry, reason defn.NackReason) {
	for face := range pitEntry.InRecords() {
		s.SendNack(pitEntry, face, reason)
	}
}

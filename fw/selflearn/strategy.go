package selflearn

import (
	"time"

	"github.com/ndnself/forwarder/core"
	"github.com/ndnself/forwarder/enc"
	"github.com/ndnself/forwarder/fw"
	"github.com/ndnself/forwarder/rib"
	"github.com/ndnself/forwarder/table"
)

// RouteRenewLifetime is the lifetime requested for routes installed from a
// learned Prefix Announcement (§4.8). Defaults to the spec constant but is
// a variable so Instantiate can apply core.Config's rib.route_renew_lifetime.
var RouteRenewLifetime = 10 * time.Minute

const (
	strategyComponent = "self-learning"
	strategyVersion   = 2
)

// Strategy is the self-learning forwarding strategy. It holds no owning
// reference to PIT entries or faces: cross-executor continuations capture
// only a PIT token and a face ID, resolved back through the thread and
// face table (SPEC_FULL §9 "Cyclic references").
type Strategy struct {
	fw.StrategyBase

	thread *fw.Thread
	rib    *rib.Manager
}

// New constructs a self-learning Strategy bound to ribMgr, the RIB
// manager's async service. Install it on a thread with thread.SetStrategy.
func New(ribMgr *rib.Manager) *Strategy {
	return &Strategy{rib: ribMgr}
}

func (s *Strategy) Instantiate(thread *fw.Thread) {
	s.NewStrategyBase(thread, strategyComponent, strategyVersion)
	s.thread = thread
	if s.rib == nil {
		core.Log.Fatal(s, "self-learning strategy instantiated without a rib manager")
	}

	if v := core.C.Fw.RetxSuppression.Initial; v > 0 {
		RetxSuppressionInitial = v
	}
	if v := core.C.Fw.RetxSuppression.Max; v > 0 {
		RetxSuppressionMax = v
	}
	if v := core.C.Rib.RouteRenewLifetime; v > 0 {
		RouteRenewLifetime = v
	}
}

// ValidateInstanceName rejects a requested strategy instance name carrying
// parameters or an unsupported version (§6/§7). New takes no instance name
// and does not call it.
func ValidateInstanceName(name enc.Name) error {
	return fw.ParseStrategyName(name, strategyComponent, strategyVersion)
}

// BeforeSatisfyInterest satisfies the fw.Strategy interface. The forwarding
// thread does not call it, and this strategy does nothing in it
// (forwarding itself happens through SendData/SendDataToAll in onData).
func (s *Strategy) BeforeSatisfyInterest(pitEntry table.PitEntry, inFace uint64) {}

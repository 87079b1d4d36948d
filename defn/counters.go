package defn

import "github.com/ndnself/forwarder/enc"

// STRATEGY_PREFIX is the namespace under which forwarding strategies
// register themselves, mirrored from the teacher's fw/defn package.
var STRATEGY_PREFIX = enc.NameFromStr("/localhost/nfd/strategy")

// NewVersionComponent builds a version (type 54) Name component.
func NewVersionComponent(v uint64) enc.Component {
	return enc.Component{Typ: enc.TypeVersionNameComponent, Val: versionString(v)}
}

func versionString(v uint64) string {
	const digits = "0123456789"
	if v == 0 {
		return "0"
	}
	buf := make([]byte, 0, 20)
	for v > 0 {
		buf = append([]byte{digits[v%10]}, buf...)
		v /= 10
	}
	return string(buf)
}

// FWThreadCounters tracks per-thread forwarding statistics, mirrored from
// the teacher's fw/defn/counters.go.
type FWThreadCounters struct {
	NPitEntries         uint64
	NCsEntries          uint64
	NInInterests        uint64
	NInData             uint64
	NInNacks            uint64
	NOutInterests       uint64
	NOutData            uint64
	NOutNacks           uint64
	NSatisfiedInterests uint64
	NUnsatisfiedInterests uint64
	NCsHits             uint64
	NCsMisses           uint64
}

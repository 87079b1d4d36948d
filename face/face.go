// Package face models logical link endpoints and the channels that mint
// them on demand, following the teacher's fw/face package shape but
// trimmed to an interface-level stand-in: real socket/QUIC/Ethernet
// transports are out of scope (see DESIGN.md, dropped dependencies).
package face

import (
	"github.com/ndnself/forwarder/defn"
)

// Face is a logical link endpoint.
type Face interface {
	FaceID() uint64
	SetFaceID(uint64)
	Scope() defn.Scope
	LinkType() defn.LinkType
	Persistency() defn.Persistency
	Channel() Channel
	SendPacket(pkt defn.Pkt)
	String() string
}

// BaseFace is an in-memory Face used by tests; real transports would embed it the way the teacher's
// transportBase is embedded by unicast-tcp/udp implementations.
type BaseFace struct {
	id          uint64
	scope       defn.Scope
	linkType    defn.LinkType
	persistency defn.Persistency
	channel     Channel
	name        string
	Sent        []defn.Pkt // test/introspection hook
}

func NewBaseFace(name string, scope defn.Scope, linkType defn.LinkType, persistency defn.Persistency, ch Channel) *BaseFace {
	return &BaseFace{name: name, scope: scope, linkType: linkType, persistency: persistency, channel: ch}
}

func (f *BaseFace) FaceID() uint64             { return f.id }
func (f *BaseFace) SetFaceID(id uint64)        { f.id = id }
func (f *BaseFace) Scope() defn.Scope          { return f.scope }
func (f *BaseFace) LinkType() defn.LinkType    { return f.linkType }
func (f *BaseFace) Persistency() defn.Persistency { return f.persistency }
func (f *BaseFace) Channel() Channel           { return f.channel }
func (f *BaseFace) String() string             { return f.name }

func (f *BaseFace) SendPacket(pkt defn.Pkt) {
	f.Sent = append(f.Sent, pkt)
}

package defn

import (
	"time"

	"github.com/ndnself/forwarder/enc"
	"github.com/ndnself/forwarder/pa"
)

// Interest is a request for Name, optionally tagged non-discovery.
//
// NonDiscoveryTag mirrors the original's zero-width marker: its presence
// means "this Interest is following a known route" rather than flooding.
type Interest struct {
	Name             enc.Name
	CanBePrefix      bool
	MustBeFresh      bool
	Nonce            uint32
	InterestLifetime time.Duration
	// HopLimit is absent (unset) for an Interest with no hop restriction;
	// when set, a hop limit of 0 means the Interest must not be forwarded
	// further (only answered from a local cache/face).
	HopLimit        pa.Optional[byte]
	NonDiscoveryTag bool
}

// Clone returns a shallow copy safe to re-tag without mutating the original.
func (i *Interest) Clone() *Interest {
	c := *i
	c.Name = i.Name.Clone()
	return &c
}

// Data is a named response, optionally carrying a Prefix Announcement.
type Data struct {
	Name                  enc.Name
	Content               []byte
	FreshnessPeriod       time.Duration
	PrefixAnnouncementTag *pa.PrefixAnnouncement
}

// NackReason mirrors the small reason-code set the strategy cares about.
type NackReason int

const (
	NackNone NackReason = iota
	NackCongestion
	NackDuplicate
	NackNoRoute
)

// Nack is a negative acknowledgment for a specific Interest.
type Nack struct {
	Interest *Interest
	Reason   NackReason
}

// Pkt is the envelope the forwarding pipeline threads through the system,
// carrying whichever one of Interest/Data/Nack is relevant alongside the
// face it arrived on or is destined for.
type Pkt struct {
	Name           enc.Name
	Interest       *Interest
	Data           *Data
	Nack           *Nack
	IncomingFaceID uint64
	NextHopFaceID  uint64
	// Endpoint disambiguates the sender on a multi-access incoming face
	// (§4.7 multi-access promotion); zero value on point-to-point faces.
	Endpoint EndpointId
}

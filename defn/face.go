// Package defn holds the shared packet and face-property types consumed by
// the table, face, and fw packages, following the teacher's fw/defn layout.
package defn

// Scope classifies a face as local (same host) or non-local.
type Scope int

const (
	NonLocal Scope = iota
	Local
)

func (s Scope) String() string {
	if s == Local {
		return "local"
	}
	return "non-local"
}

// LinkType classifies the medium a face runs over.
type LinkType int

const (
	PointToPoint LinkType = iota
	MultiAccess
	AdHoc
)

func (l LinkType) String() string {
	switch l {
	case MultiAccess:
		return "multi-access"
	case AdHoc:
		return "ad-hoc"
	default:
		return "point-to-point"
	}
}

// Persistency controls how long an idle face is kept around.
type Persistency int

const (
	PersistencyPersistent Persistency = iota
	PersistencyOnDemand
	PersistencyPermanent
)

// EndpointKind tags which union member of EndpointId is populated.
type EndpointKind int

const (
	EndpointNone EndpointKind = iota
	EndpointEthernet
	EndpointUDP
	EndpointTCP
)

// EndpointId disambiguates peers sharing a multi-access face: an Ethernet
// address, a UDP host:port, or a TCP host:port. At most one field is
// meaningful, selected by Kind.
type EndpointId struct {
	Kind EndpointKind
	Addr string
}

func (e EndpointId) String() string {
	if e.Kind == EndpointNone {
		return ""
	}
	return e.Addr
}

func (e EndpointId) Equal(o EndpointId) bool {
	return e.Kind == o.Kind && e.Addr == o.Addr
}

// Package enc provides the hierarchical Name type shared by the packet,
// table, and strategy layers.
package enc

import (
	"strings"

	"github.com/cespare/xxhash"
)

// Component is a single element of a Name, e.g. "b" in "/a/b/c".
type Component struct {
	Typ uint64
	Val string
}

// NewGenericComponent builds a generic (type 8) Name component.
func NewGenericComponent(s string) Component {
	return Component{Typ: TypeGenericNameComponent, Val: s}
}

const (
	TypeGenericNameComponent uint64 = 8
	TypeVersionNameComponent uint64 = 54
	TypeKeywordNameComponent uint64 = 32
)

func (c Component) String() string {
	if c.Typ == TypeGenericNameComponent || c.Typ == 0 {
		return c.Val
	}
	return c.Val
}

func (c Component) Hash() uint64 {
	h := xxhash.New()
	_, _ = h.Write([]byte{byte(c.Typ)})
	_, _ = h.Write([]byte(c.Val))
	return h.Sum64()
}

func (c Component) Equal(o Component) bool {
	return c.Typ == o.Typ && c.Val == o.Val
}

// Name is an ordered sequence of Components, e.g. /a/b/c.
type Name []Component

// NameFromStr parses a slash-separated string into a Name. Empty
// components (leading slash, trailing slash, "//") are ignored.
func NameFromStr(s string) Name {
	parts := strings.Split(s, "/")
	name := make(Name, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		name = append(name, NewGenericComponent(p))
	}
	return name
}

func (n Name) String() string {
	var b strings.Builder
	for _, c := range n {
		b.WriteByte('/')
		b.WriteString(c.String())
	}
	if len(n) == 0 {
		return "/"
	}
	return b.String()
}

func (n Name) Clone() Name {
	out := make(Name, len(n))
	copy(out, n)
	return out
}

func (n Name) Append(comps ...Component) Name {
	out := make(Name, 0, len(n)+len(comps))
	out = append(out, n...)
	out = append(out, comps...)
	return out
}

// At returns the component at depth i. It does no bounds check: i must be
// below len(n), which the tree-walking FIB/RIB code checks before calling.
// Mirrors the teacher's table.At helper.
func At(n Name, i int) Component {
	if i < 0 {
		i += len(n) + 1
	}
	return n[i]
}

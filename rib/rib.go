// Package rib implements the Routing Information Base manager: the async,
// executor-hosted service the forwarding strategy posts PA lookups and
// route installations to, following the tree structure of the teacher's
// fw/table/rib.go but re-exposed through a callback-based API instead of
// direct mutex-guarded calls, matching the two-executor model of SPEC_FULL
// §5/§6.
package rib

import (
	"crypto/ed25519"
	"sync"
	"time"

	"github.com/ndnself/forwarder/core"
	"github.com/ndnself/forwarder/enc"
	"github.com/ndnself/forwarder/executor"
	"github.com/ndnself/forwarder/pa"
)

// Result mirrors the original's Result callback argument: success, or a
// reason the operation failed, logged only and never surfaced to the
// forwarding strategy as an error.
type Result struct {
	OK     bool
	Reason string
}

type ribRoute struct {
	faceID     uint64
	pa         *pa.PrefixAnnouncement
	expiration time.Time
}

type ribEntry struct {
	name     enc.Name
	depth    int
	component enc.Component
	parent   *ribEntry
	children map[uint64]*ribEntry
	routes   map[uint64]*ribRoute // keyed by faceID
}

// Manager owns the RIB tree and runs exclusively on its own Executor; every
// method here is safe to call from any goroutine because it simply posts a
// closure, never touching ribEntry state off the rib executor.
type Manager struct {
	exec *executor.Executor

	mu   sync.Mutex // never locked: root is only touched from within exec's goroutine
	root *ribEntry

	// trustAnchors holds the configured set of signer keys allowed to
	// mint Prefix Announcements this rib will install routes from. An
	// empty set trusts nobody: SlAnnounce rejects every announcement
	// until anchors are configured, rather than silently trusting
	// whichever key happens to be embedded in the announcement itself.
	trustAnchors map[string]struct{}
}

func NewManager(queueSize int) *Manager {
	m := &Manager{
		exec:         executor.New(queueSize),
		root:         &ribEntry{children: make(map[uint64]*ribEntry)},
		trustAnchors: make(map[string]struct{}),
	}
	return m
}

func (m *Manager) String() string { return "rib" }

// SetTrustAnchors installs the set of signer public keys SlAnnounce will
// accept Prefix Announcements from. Safe to call before Run, or posted to
// the rib executor; not safe to call concurrently with itself.
func (m *Manager) SetTrustAnchors(keys []ed25519.PublicKey) {
	anchors := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		anchors[string(k)] = struct{}{}
	}
	m.exec.Post(func() { m.trustAnchors = anchors })
}

func (m *Manager) isTrustedSigner(key ed25519.PublicKey) bool {
	_, ok := m.trustAnchors[string(key)]
	return ok
}

// Run starts the rib executor's goroutine. Call once, typically via `go
// m.Run()`.
func (m *Manager) Run() { m.exec.Run() }

// Stop drains and stops the rib executor.
func (m *Manager) Stop() { m.exec.Stop() }

func (e *ribEntry) findLongestPrefix(name enc.Name) *ribEntry {
	if len(name) > e.depth {
		if child := e.children[enc.At(name, e.depth).Hash()]; child != nil {
			return child.findLongestPrefix(name)
		}
	}
	return e
}

func (m *Manager) fillTreeToPrefix(name enc.Name) *ribEntry {
	entry := m.root.findLongestPrefix(name)
	for depth := entry.depth; depth < len(name); depth++ {
		c := name[depth]
		child := &ribEntry{
			component: c,
			name:      name[:depth+1].Clone(),
			depth:     depth + 1,
			parent:    entry,
			children:  make(map[uint64]*ribEntry),
			routes:    make(map[uint64]*ribRoute),
		}
		entry.children[c.Hash()] = child
		entry = child
	}
	return entry
}

// SlFindAnn looks up a usable Prefix Announcement for name: the exact-match
// RIB entry's longest-lived, still-valid route's PA. cb is invoked on the
// rib executor with (pa, found); the caller is responsible for posting any
// continuation back to its own executor.
func (m *Manager) SlFindAnn(name enc.Name, cb func(found *pa.PrefixAnnouncement, ok bool)) {
	m.exec.Post(func() {
		entry := m.root.findLongestPrefix(name)
		if len(entry.name) != len(name) {
			cb(nil, false)
			return
		}
		now := time.Now()
		var best *ribRoute
		for _, r := range entry.routes {
			if r.expiration.Before(now) {
				continue
			}
			if best == nil || r.expiration.After(best.expiration) {
				best = r
			}
		}
		if best == nil {
			cb(nil, false)
			return
		}
		cb(best.pa, true)
	})
}

// SlAnnounce verifies announcement and, if valid, installs a route for its
// prefix via faceID with the given lifetime (§4.8: RouteRenewLifetime =
// 10 min by default). cb is invoked on the rib executor with the result.
// The route is kept in the RIB tree only; it is not copied into the
// forwarding thread's FIB.
func (m *Manager) SlAnnounce(announcement *pa.PrefixAnnouncement, faceID uint64, lifetime time.Duration, cb func(Result)) {
	m.exec.Post(func() {
		if err := announcement.Verify(); err != nil {
			core.Log.Debug(m, "rejected prefix announcement", "err", err, "prefix", announcement.Prefix.String())
			if cb != nil {
				cb(Result{OK: false, Reason: err.Error()})
			}
			return
		}
		if !m.isTrustedSigner(announcement.SignerKey) {
			core.Log.Debug(m, "rejected prefix announcement from untrusted signer", "prefix", announcement.Prefix.String())
			if cb != nil {
				cb(Result{OK: false, Reason: "untrusted signer"})
			}
			return
		}
		entry := m.fillTreeToPrefix(announcement.Prefix)
		entry.routes[faceID] = &ribRoute{
			faceID:     faceID,
			pa:         announcement,
			expiration: time.Now().Add(lifetime),
		}
		core.Log.Debug(m, "installed route", "prefix", announcement.Prefix.String(), "faceid", faceID, "lifetime", lifetime)
		if cb != nil {
			cb(Result{OK: true})
		}
	})
}

// SlRenew adjusts the expiration of the route for name via faceID.
// maxLifetime = 0 means expire immediately (§4.6: NO_ROUTE clears the
// route).
func (m *Manager) SlRenew(name enc.Name, faceID uint64, maxLifetime time.Duration, cb func(Result)) {
	m.exec.Post(func() {
		entry := m.root.findLongestPrefix(name)
		if len(entry.name) != len(name) {
			if cb != nil {
				cb(Result{OK: false, Reason: "no such prefix"})
			}
			return
		}
		route, ok := entry.routes[faceID]
		if !ok {
			if cb != nil {
				cb(Result{OK: false, Reason: "no such route"})
			}
			return
		}
		if maxLifetime <= 0 {
			delete(entry.routes, faceID)
			core.Log.Debug(m, "expired route", "prefix", name.String(), "faceid", faceID)
		} else {
			route.expiration = time.Now().Add(maxLifetime)
		}
		if cb != nil {
			cb(Result{OK: true})
		}
	})
}

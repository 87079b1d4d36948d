// Package table holds the PIT and FIB containers the forwarding strategy
// consumes, following the teacher's fw/table package conventions.
package table

import (
	"sync"
	"time"

	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/enc"
)

// InRecordInfo is the strategy's scratch space on a PIT in-record: a single
// boolean recording how the downstream presented the Interest. There is
// exactly one strategy in this repository with per-record state, so a
// fixed struct is used instead of a dynamically typed slot.
type InRecordInfo struct {
	IsNonDiscoveryInterest bool
}

// OutRecordInfo is the strategy's scratch space on a PIT out-record: set
// exactly when the strategy last sent the Interest upstream as non-discovery.
type OutRecordInfo struct {
	IsNonDiscoveryInterest bool
}

type PitInRecord struct {
	Face            uint64
	LatestTimestamp time.Time
	LatestNonce     uint32
	ExpirationTime  time.Time
	PitToken        []byte
	Info            InRecordInfo
}

type PitOutRecord struct {
	Face            uint64
	LatestTimestamp time.Time
	LatestNonce     uint32
	ExpirationTime  time.Time
	Info            OutRecordInfo
}

// SuppressionState is the retransmission suppressor's per-entry scratch,
// described in spec terms as living "inside the PIT entry's strategy
// scratch".
type SuppressionState struct {
	Decided bool
	Last    time.Time
	Window  time.Duration
}

// PitEntry is the per-Interest state held by the PIT, read and mutated by
// the forwarding strategy via the interface below; field access never
// crosses executors directly (see PitEntry.Token / PitTable.Resolve).
type PitEntry interface {
	Name() enc.Name
	Interest() *defn.Interest
	Token() uint64

	InRecords() map[uint64]*PitInRecord
	OutRecords() map[uint64]*PitOutRecord
	InRecord(face uint64) (*PitInRecord, bool)
	OutRecord(face uint64) (*PitOutRecord, bool)
	InsertInRecord(interest *defn.Interest, face uint64, pitToken []byte) (*PitInRecord, bool)
	InsertOutRecord(interest *defn.Interest, face uint64) *PitOutRecord
	RemoveInRecord(face uint64)
	RemoveOutRecord(face uint64)

	ExpirationTime() time.Time
	SetExpirationTime(t time.Time)

	Satisfied() bool
	SetSatisfied(bool)

	Rejected() bool
	SetRejected(bool)

	Suppression() *SuppressionState
}

type basePitEntry struct {
	name       enc.Name
	interest   *defn.Interest
	token      uint64
	inRecords  map[uint64]*PitInRecord
	outRecords map[uint64]*PitOutRecord
	expiration time.Time
	satisfied  bool
	rejected   bool
	suppress   SuppressionState
}

func (e *basePitEntry) Name() enc.Name          { return e.name }
func (e *basePitEntry) Interest() *defn.Interest { return e.interest }
func (e *basePitEntry) Token() uint64           { return e.token }

func (e *basePitEntry) InRecords() map[uint64]*PitInRecord   { return e.inRecords }
func (e *basePitEntry) OutRecords() map[uint64]*PitOutRecord { return e.outRecords }

func (e *basePitEntry) InRecord(face uint64) (*PitInRecord, bool) {
	r, ok := e.inRecords[face]
	return r, ok
}

func (e *basePitEntry) OutRecord(face uint64) (*PitOutRecord, bool) {
	r, ok := e.outRecords[face]
	return r, ok
}

func (e *basePitEntry) InsertInRecord(interest *defn.Interest, face uint64, pitToken []byte) (*PitInRecord, bool) {
	now := time.Now()
	if r, ok := e.inRecords[face]; ok {
		r.LatestTimestamp = now
		r.LatestNonce = interest.Nonce
		r.ExpirationTime = now.Add(interest.InterestLifetime)
		r.PitToken = pitToken
		return r, true
	}
	r := &PitInRecord{
		Face:            face,
		LatestTimestamp: now,
		LatestNonce:     interest.Nonce,
		ExpirationTime:  now.Add(interest.InterestLifetime),
		PitToken:        pitToken,
	}
	e.inRecords[face] = r
	return r, false
}

func (e *basePitEntry) InsertOutRecord(interest *defn.Interest, face uint64) *PitOutRecord {
	now := time.Now()
	if r, ok := e.outRecords[face]; ok {
		r.LatestTimestamp = now
		r.LatestNonce = interest.Nonce
		r.ExpirationTime = now.Add(interest.InterestLifetime)
		return r
	}
	r := &PitOutRecord{
		Face:            face,
		LatestTimestamp: now,
		LatestNonce:     interest.Nonce,
		ExpirationTime:  now.Add(interest.InterestLifetime),
	}
	e.outRecords[face] = r
	return r
}

func (e *basePitEntry) RemoveInRecord(face uint64)  { delete(e.inRecords, face) }
func (e *basePitEntry) RemoveOutRecord(face uint64) { delete(e.outRecords, face) }

func (e *basePitEntry) ExpirationTime() time.Time     { return e.expiration }
func (e *basePitEntry) SetExpirationTime(t time.Time) { e.expiration = t }

func (e *basePitEntry) Satisfied() bool      { return e.satisfied }
func (e *basePitEntry) SetSatisfied(v bool)  { e.satisfied = v }
func (e *basePitEntry) Rejected() bool       { return e.rejected }
func (e *basePitEntry) SetRejected(v bool)   { e.rejected = v }

func (e *basePitEntry) Suppression() *SuppressionState { return &e.suppress }

// PitTable indexes PIT entries by Name and by an opaque Token, the latter
// acting as a weak handle: a continuation posted to another executor
// captures only the Token and the owning PitTable, and must call Resolve
// to upgrade it back to a live PitEntry, which fails once the entry has
// been removed (satisfied, rejected, or expired).
type PitTable struct {
	mu      sync.Mutex
	byName  map[string]*basePitEntry
	byToken map[uint64]*basePitEntry
	nextTok uint64
}

func NewPitTable() *PitTable {
	return &PitTable{
		byName:  make(map[string]*basePitEntry),
		byToken: make(map[uint64]*basePitEntry),
	}
}

// InsertInterest finds or creates the PIT entry for interest.Name, mirroring
// the teacher's pitCS.InsertInterest. Returns the entry and whether it was
// freshly created.
func (t *PitTable) InsertInterest(interest *defn.Interest) (PitEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := interest.Name.String()
	if e, ok := t.byName[key]; ok {
		return e, false
	}
	t.nextTok++
	e := &basePitEntry{
		name:       interest.Name.Clone(),
		interest:   interest,
		token:      t.nextTok,
		inRecords:  make(map[uint64]*PitInRecord),
		outRecords: make(map[uint64]*PitOutRecord),
		expiration: time.Now().Add(interest.InterestLifetime),
	}
	t.byName[key] = e
	t.byToken[e.token] = e
	return e, true
}

// FindByName returns the exact-match PIT entry for name, if any.
func (t *PitTable) FindByName(name enc.Name) (PitEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.byName[name.String()]
	return e, ok
}

// Resolve upgrades a weak Token back to a live PitEntry. Returns false if
// the entry has since been removed.
func (t *PitTable) Resolve(token uint64) (PitEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.byToken[token]
	return e, ok
}

// Remove deletes entry from the table; any outstanding weak Token fails to
// resolve afterwards.
func (t *PitTable) Remove(entry PitEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byName, entry.Name().String())
	delete(t.byToken, entry.Token())
}

// RemoveExpired sweeps entries whose expiration has passed and whose every
// in-record is also expired (invariant 3: a PIT entry exists only while at
// least one in-record is unexpired).
func (t *PitTable) RemoveExpired(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, e := range t.byName {
		if e.expiration.After(now) || e.hasUnexpiredInRecord(now) {
			continue
		}
		delete(t.byName, key)
		delete(t.byToken, e.token)
	}
}

func (e *basePitEntry) hasUnexpiredInRecord(now time.Time) bool {
	for _, r := range e.inRecords {
		if r.ExpirationTime.After(now) {
			return true
		}
	}
	return false
}

package selflearn

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/enc"
	"github.com/ndnself/forwarder/face"
	"github.com/ndnself/forwarder/fw"
	"github.com/ndnself/forwarder/pa"
	"github.com/ndnself/forwarder/rib"
	"github.com/ndnself/forwarder/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	thread *fw.Thread
	rib    *rib.Manager
	faces  *face.Table
	fib    *table.FibTable
}

func newHarness(t *testing.T) *harness {
	faces := face.NewTable()
	fib := table.NewFibTable()
	th := fw.NewThread(16, fib, faces)
	ribMgr := rib.NewManager(16)

	go th.Run()
	go ribMgr.Run()
	t.Cleanup(func() {
		th.Stop()
		ribMgr.Stop()
	})

	strat := New(ribMgr)
	th.SetStrategy(strat)

	return &harness{thread: th, rib: ribMgr, faces: faces, fib: fib}
}

// sync blocks until every task already posted to the thread has run.
func (h *harness) sync() {
	done := make(chan struct{})
	h.thread.Post(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		panic("harness.sync: timed out")
	}
}

func (h *harness) findAnn(name enc.Name) (*pa.PrefixAnnouncement, bool) {
	result := make(chan struct {
		ann *pa.PrefixAnnouncement
		ok  bool
	}, 1)
	h.rib.SlFindAnn(name, func(found *pa.PrefixAnnouncement, ok bool) {
		result <- struct {
			ann *pa.PrefixAnnouncement
			ok  bool
		}{found, ok}
	})
	select {
	case r := <-result:
		return r.ann, r.ok
	case <-time.After(2 * time.Second):
		panic("harness.findAnn: timed out")
	}
}

func newTestFace(name string, scope defn.Scope, linkType defn.LinkType, ch face.Channel) *face.BaseFace {
	return face.NewBaseFace(name, scope, linkType, defn.PersistencyPersistent, ch)
}

// signedAnnouncement signs a PrefixAnnouncement and registers its signer as
// a trust anchor on h's rib manager, matching how a deployment would
// configure the anchors a PA's signature is checked against (§3).
func signedAnnouncement(t *testing.T, h *harness, prefix enc.Name) *pa.PrefixAnnouncement {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	h.rib.SetTrustAnchors([]ed25519.PublicKey{pub})
	return pa.Sign(priv, prefix, time.Hour)
}

func TestScenarioNoRouteBroadcastsDiscovery(t *testing.T) {
	h := newHarness(t)
	consumer := newTestFace("consumer", defn.Local, defn.PointToPoint, nil)
	downstream := newTestFace("downstream", defn.NonLocal, defn.PointToPoint, nil)
	h.faces.Add(consumer)
	h.faces.Add(downstream)

	interest := &defn.Interest{Name: enc.NameFromStr("/a/b"), InterestLifetime: time.Second, Nonce: 1}
	h.thread.QueueInterest(&defn.Pkt{Name: interest.Name, Interest: interest, IncomingFaceID: consumer.FaceID()})
	h.sync()

	require.Len(t, downstream.Sent, 1)
	assert.False(t, downstream.Sent[0].Interest.NonDiscoveryTag)
	assert.Empty(t, consumer.Sent, "must never reflect back onto the ingress face")
}

func TestScenarioFibRouteSendsUnicastNonDiscovery(t *testing.T) {
	h := newHarness(t)
	consumer := newTestFace("consumer", defn.Local, defn.PointToPoint, nil)
	provider := newTestFace("provider", defn.NonLocal, defn.PointToPoint, nil)
	h.faces.Add(consumer)
	h.faces.Add(provider)
	h.fib.AddNexthop(enc.NameFromStr("/a"), provider.FaceID(), 10)

	interest := &defn.Interest{Name: enc.NameFromStr("/a/b"), InterestLifetime: time.Second, Nonce: 1}
	h.thread.QueueInterest(&defn.Pkt{Name: interest.Name, Interest: interest, IncomingFaceID: consumer.FaceID()})
	h.sync()

	require.Len(t, provider.Sent, 1)
	assert.True(t, provider.Sent[0].Interest.NonDiscoveryTag)
}

func TestScenarioRetransmissionWithinWindowIsSuppressed(t *testing.T) {
	h := newHarness(t)
	consumer := newTestFace("consumer", defn.Local, defn.PointToPoint, nil)
	provider := newTestFace("provider", defn.NonLocal, defn.PointToPoint, nil)
	h.faces.Add(consumer)
	h.faces.Add(provider)
	h.fib.AddNexthop(enc.NameFromStr("/a"), provider.FaceID(), 10)

	name := enc.NameFromStr("/a/b")
	mk := func(nonce uint32) *defn.Pkt {
		i := &defn.Interest{Name: name, InterestLifetime: time.Second, Nonce: nonce}
		return &defn.Pkt{Name: name, Interest: i, IncomingFaceID: consumer.FaceID()}
	}

	h.thread.QueueInterest(mk(1))
	h.sync()
	h.thread.QueueInterest(mk(2))
	h.sync()

	assert.Len(t, provider.Sent, 1, "second arrival within the suppression window must not trigger a retransmission")
}

func TestScenarioDataWithPrefixAnnouncementInstallsRoute(t *testing.T) {
	h := newHarness(t)
	consumer := newTestFace("consumer", defn.Local, defn.PointToPoint, nil)
	provider := newTestFace("provider", defn.NonLocal, defn.PointToPoint, nil)
	h.faces.Add(consumer)
	h.faces.Add(provider)

	name := enc.NameFromStr("/a/b")
	interest := &defn.Interest{Name: name, InterestLifetime: time.Second, Nonce: 1}

	// A discovery Interest floods to every eligible face, including provider.
	h.thread.QueueInterest(&defn.Pkt{Name: name, Interest: interest, IncomingFaceID: consumer.FaceID()})
	h.sync()

	ann := signedAnnouncement(t, h, enc.NameFromStr("/a"))
	data := &defn.Data{Name: name, PrefixAnnouncementTag: ann}
	h.thread.QueueData(&defn.Pkt{Name: name, Data: data, IncomingFaceID: provider.FaceID()})
	h.sync()

	require.Len(t, consumer.Sent, 1, "data must be forwarded back to the downstream consumer")

	found, ok := h.findAnn(enc.NameFromStr("/a"))
	require.True(t, ok, "prefix announcement must be installed in the rib")
	assert.Equal(t, ann.Prefix.String(), found.Prefix.String())
}

func TestScenarioNoRouteNackRejectsNonDiscoveryConsumer(t *testing.T) {
	h := newHarness(t)
	consumer := newTestFace("consumer", defn.Local, defn.PointToPoint, nil)
	h.faces.Add(consumer)

	name := enc.NameFromStr("/never/routed")
	interest := &defn.Interest{Name: name, InterestLifetime: time.Second, Nonce: 1, NonDiscoveryTag: true}
	h.thread.QueueInterest(&defn.Pkt{Name: name, Interest: interest, IncomingFaceID: consumer.FaceID()})
	h.sync()

	require.Len(t, consumer.Sent, 1)
	require.NotNil(t, consumer.Sent[0].Nack)
	assert.Equal(t, defn.NackNoRoute, consumer.Sent[0].Nack.Reason)
}

func TestScenarioMultiAccessPromotion(t *testing.T) {
	h := newHarness(t)
	consumer := newTestFace("consumer", defn.Local, defn.PointToPoint, nil)
	h.faces.Add(consumer)

	promoted := newTestFace("promoted-unicast", defn.NonLocal, defn.PointToPoint, nil)
	ch := &fakeChannel{newFace: promoted}
	multiAccess := newTestFace("multi-access", defn.NonLocal, defn.MultiAccess, ch)
	h.faces.Add(multiAccess)

	name := enc.NameFromStr("/a/b")
	interest := &defn.Interest{Name: name, InterestLifetime: time.Second, Nonce: 1}
	h.thread.QueueInterest(&defn.Pkt{Name: name, Interest: interest, IncomingFaceID: consumer.FaceID()})
	h.sync()

	ann := signedAnnouncement(t, h, enc.NameFromStr("/a"))
	data := &defn.Data{Name: name, PrefixAnnouncementTag: ann}
	h.thread.QueueData(&defn.Pkt{Name: name, Data: data, IncomingFaceID: multiAccess.FaceID()})
	h.sync()
	// promotion resolves asynchronously via onSuccess posted back to main.
	waitFor(t, func() bool { return len(consumer.Sent) == 1 })

	require.Len(t, consumer.Sent, 1)
	found, ok := h.findAnn(enc.NameFromStr("/a"))
	require.True(t, ok)
	assert.Equal(t, ann.Prefix.String(), found.Prefix.String())
}

type fakeChannel struct {
	newFace face.Face
}

func (c *fakeChannel) Connect(endpoint defn.EndpointId, params face.FaceParams, onSuccess func(face.Face), onFailure func(error)) {
	go onSuccess(c.newFace)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never became true")
}

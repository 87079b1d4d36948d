// Package cmd wires the forwarding thread, the rib manager, and the
// self-learning strategy into a runnable process, following the teacher's
// fw/cmd/yanfd.go wrapper-class shape.
package cmd

import (
	"crypto/ed25519"
	"encoding/hex"
	"time"

	"github.com/ndnself/forwarder/core"
	"github.com/ndnself/forwarder/face"
	"github.com/ndnself/forwarder/fw"
	"github.com/ndnself/forwarder/fw/selflearn"
	"github.com/ndnself/forwarder/rib"
	"github.com/ndnself/forwarder/table"
)

// Forwarder is the wrapper class for the self-learning NDN forwarder. Only
// one instance should be created.
type Forwarder struct {
	config *core.Config

	thread *fw.Thread
	rib    *rib.Manager
	faces  *face.Table
}

// NewForwarder creates a Forwarder. Don't call this function twice.
func NewForwarder(config *core.Config) *Forwarder {
	core.C = config
	core.StartTimestamp = time.Now()

	if err := core.OpenLogger(); err != nil {
		core.Log.Fatal(nil, "unable to open log file", "err", err)
	}

	fib := table.NewFibTable()
	faces := face.NewTable()
	ribMgr := rib.NewManager(config.Rib.QueueSize)
	ribMgr.SetTrustAnchors(decodeTrustAnchors(config.Rib.TrustAnchors))
	thread := fw.NewThread(config.Fw.QueueSize, fib, faces)

	return &Forwarder{
		config: config,
		thread: thread,
		rib:    ribMgr,
		faces:  faces,
	}
}

// decodeTrustAnchors parses the configured hex-encoded ed25519 public
// keys, skipping (and logging) any that fail to decode rather than
// aborting startup over one bad entry.
func decodeTrustAnchors(hexKeys []string) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, 0, len(hexKeys))
	for _, hk := range hexKeys {
		raw, err := hex.DecodeString(hk)
		if err != nil || len(raw) != ed25519.PublicKeySize {
			core.Log.Error(nil, "ignoring malformed trust anchor", "value", hk)
			continue
		}
		keys = append(keys, ed25519.PublicKey(raw))
	}
	return keys
}

func (y *Forwarder) String() string { return "forwarder" }

// Start runs the forwarder's executors and installs the self-learning
// strategy. Non-blocking.
func (y *Forwarder) Start() {
	core.Log.Info(y, "starting self-learning forwarder")

	go y.rib.Run()
	go y.thread.Run()

	y.thread.SetStrategy(selflearn.New(y.rib))

	go y.sweepLoop()
}

// sweepLoop periodically removes PIT entries whose expiration time has
// passed and that have no remaining unexpired in-record (invariant 3),
// mirroring the teacher's cs/pit cleanup timer.
func (y *Forwarder) sweepLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		if core.ShouldQuit {
			return
		}
		<-ticker.C
		y.thread.Post(y.thread.SweepExpired)
	}
}

// Faces exposes the face table so a caller (or test harness) can register
// faces before or after Start.
func (y *Forwarder) Faces() *face.Table { return y.faces }

// Stop shuts the forwarder down.
func (y *Forwarder) Stop() {
	core.Log.Info(y, "stopping self-learning forwarder")
	core.ShouldQuit = true
	y.thread.Stop()
	y.rib.Stop()
}

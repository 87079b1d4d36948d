// Package pa implements Prefix Announcements: signed, RIB-verifiable
// claims that a named prefix is reachable via the producing node.
//
// Security of the PA is verified here (by the RIB, at install time) and is
// explicitly out of scope for the forwarding strategy itself, which treats
// a *pa.PrefixAnnouncement as an opaque envelope.
package pa

import (
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/ndnself/forwarder/enc"
)

// PrefixAnnouncement is a signed claim that Prefix is reachable, valid
// until Expiration.
type PrefixAnnouncement struct {
	Prefix     enc.Name
	Expiration time.Time
	SignerKey  ed25519.PublicKey
	Signature  []byte
}

func signedBytes(prefix enc.Name, expiration time.Time) []byte {
	b := []byte(prefix.String())
	exp, _ := expiration.MarshalBinary()
	return append(b, exp...)
}

// Sign produces a PrefixAnnouncement for prefix, valid for lifetime,
// signed with priv. Mirrors the teacher's std/security ed25519 signer
// idiom (stdlib crypto/ed25519, no third-party crypto library).
func Sign(priv ed25519.PrivateKey, prefix enc.Name, lifetime time.Duration) *PrefixAnnouncement {
	expiration := time.Now().Add(lifetime)
	msg := signedBytes(prefix, expiration)
	return &PrefixAnnouncement{
		Prefix:     prefix.Clone(),
		Expiration: expiration,
		SignerKey:  priv.Public().(ed25519.PublicKey),
		Signature:  ed25519.Sign(priv, msg),
	}
}

var ErrVerification = errors.New("pa: signature verification failed")
var ErrExpired = errors.New("pa: announcement expired")

// Verify checks the PA's signature and expiration. The RIB manager calls
// this before installing a route; the forwarding strategy never does.
func (p *PrefixAnnouncement) Verify() error {
	if time.Now().After(p.Expiration) {
		return ErrExpired
	}
	msg := signedBytes(p.Prefix, p.Expiration)
	if !ed25519.Verify(p.SignerKey, msg, p.Signature) {
		return ErrVerification
	}
	return nil
}

// Package selflearn implements the self-learning forwarding strategy: zero-
// configuration bootstrap via discovery-Interest flooding, Prefix
// Announcement-based FIB route installation, and multi-access->unicast
// face promotion. Grounded in NFD's self-learning-strategy.{hpp,cpp} and
// expressed through this repository's fw.Strategy interface.
package selflearn

import (
	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/enc"
	"github.com/ndnself/forwarder/face"
)

// isLocalScopeName reports whether name is under /localhost, the one
// concrete scope restriction this repository enforces (GLOSSARY: "Scope
// violation - sending a local-scope Interest out a non-local face").
func isLocalScopeName(name enc.Name) bool {
	return len(name) > 0 && name[0].Val == "localhost"
}

// violatesScope reports whether sending interest out outFace would violate
// its scope.
func violatesScope(interest *defn.Interest, outFace face.Face) bool {
	return isLocalScopeName(interest.Name) && outFace.Scope() == defn.NonLocal
}

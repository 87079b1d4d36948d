package face

import "sync"

// dispatch is a minimal faceID -> Face registry decoupling the face and fw
// packages, the way the teacher's fw/dispatch package does (referenced from
// fw/fw/thread.go and fw/face/table.go, but absent from the retrieved
// example tree — see DESIGN.md). Kept process-global to match the
// teacher's single-registry call sites (dispatch.GetFace/AddFace/RemoveFace).
var dispatch = struct {
	mu    sync.RWMutex
	faces map[uint64]Face
}{faces: make(map[uint64]Face)}

func AddFace(id uint64, f Face) {
	dispatch.mu.Lock()
	defer dispatch.mu.Unlock()
	dispatch.faces[id] = f
}

func RemoveFace(id uint64) {
	dispatch.mu.Lock()
	defer dispatch.mu.Unlock()
	delete(dispatch.faces, id)
}

func GetFace(id uint64) Face {
	dispatch.mu.RLock()
	defer dispatch.mu.RUnlock()
	return dispatch.faces[id]
}

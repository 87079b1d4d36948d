package face

import (
	"sort"
	"sync"
	"sync/atomic"
)

// FaceTable is a process-global face table, mirroring the teacher's
// fw/face/table.go. cmd.Forwarder does not use it: it creates its own Table
// with NewTable.
var FaceTable = NewTable()

// Table holds all faces used by the forwarder.
type Table struct {
	faces      sync.Map
	nextFaceID atomic.Uint64 // starts at 1
}

func NewTable() *Table {
	t := &Table{}
	t.nextFaceID.Store(0)
	return t
}

func (t *Table) String() string { return "face-table" }

// Add registers face, assigning it the next FaceID.
func (t *Table) Add(f Face) uint64 {
	id := t.nextFaceID.Add(1)
	f.SetFaceID(id)
	t.faces.Store(id, f)
	AddFace(id, f)
	return id
}

func (t *Table) Get(id uint64) Face {
	v, ok := t.faces.Load(id)
	if !ok {
		return nil
	}
	return v.(Face)
}

func (t *Table) Remove(id uint64) {
	t.faces.Delete(id)
	RemoveFace(id)
}

// GetAll returns every registered face in no particular order.
func (t *Table) GetAll() []Face {
	faces := make([]Face, 0)
	t.faces.Range(func(_, v interface{}) bool {
		faces = append(faces, v.(Face))
		return true
	})
	return faces
}

// GetAllOrdered returns every registered face sorted ascending by FaceID,
// giving broadcastInterest (§4.3.4) a stable, deterministic "table order"
// to iterate.
func (t *Table) GetAllOrdered() []Face {
	faces := t.GetAll()
	sort.Slice(faces, func(i, j int) bool { return faces[i].FaceID() < faces[j].FaceID() })
	return faces
}

package selflearn

import (
	"testing"
	"time"

	"github.com/ndnself/forwarder/defn"
	"github.com/ndnself/forwarder/enc"
	"github.com/ndnself/forwarder/face"
	"github.com/ndnself/forwarder/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFaceTable(faces ...face.Face) *face.Table {
	t := face.NewTable()
	for _, f := range faces {
		t.Add(f)
	}
	return t
}

func newTestInterest(name string, lifetime time.Duration) *defn.Interest {
	return &defn.Interest{Name: enc.NameFromStr(name), InterestLifetime: lifetime}
}

func TestSelectFreshPicksFirstEligibleWithoutOutRecord(t *testing.T) {
	f1 := face.NewBaseFace("f1", defn.NonLocal, defn.PointToPoint, defn.PersistencyPersistent, nil)
	f2 := face.NewBaseFace("f2", defn.NonLocal, defn.PointToPoint, defn.PersistencyPersistent, nil)
	faces := newFaceTable(f1, f2)

	nexthops := []*table.FibNextHopEntry{{Nexthop: f1.FaceID(), Cost: 10}, {Nexthop: f2.FaceID(), Cost: 20}}
	interest := newTestInterest("/a", time.Second)
	pit := table.NewPitTable()
	pitEntry, _ := pit.InsertInterest(interest)

	nh, ok := SelectFresh(nexthops, 0, interest, pitEntry, faces)
	require.True(t, ok)
	assert.Equal(t, f1.FaceID(), nh)
}

func TestSelectFreshSkipsIngressFace(t *testing.T) {
	f1 := face.NewBaseFace("f1", defn.NonLocal, defn.PointToPoint, defn.PersistencyPersistent, nil)
	f2 := face.NewBaseFace("f2", defn.NonLocal, defn.PointToPoint, defn.PersistencyPersistent, nil)
	faces := newFaceTable(f1, f2)

	nexthops := []*table.FibNextHopEntry{{Nexthop: f1.FaceID(), Cost: 10}, {Nexthop: f2.FaceID(), Cost: 20}}
	interest := newTestInterest("/a", time.Second)
	pit := table.NewPitTable()
	pitEntry, _ := pit.InsertInterest(interest)

	nh, ok := SelectFresh(nexthops, f1.FaceID(), interest, pitEntry, faces)
	require.True(t, ok)
	assert.Equal(t, f2.FaceID(), nh)
}

func TestSelectFreshAllowsAdHocIngress(t *testing.T) {
	f1 := face.NewBaseFace("f1", defn.NonLocal, defn.AdHoc, defn.PersistencyPersistent, nil)
	faces := newFaceTable(f1)

	nexthops := []*table.FibNextHopEntry{{Nexthop: f1.FaceID(), Cost: 10}}
	interest := newTestInterest("/a", time.Second)
	pit := table.NewPitTable()
	pitEntry, _ := pit.InsertInterest(interest)

	nh, ok := SelectFresh(nexthops, f1.FaceID(), interest, pitEntry, faces)
	require.True(t, ok)
	assert.Equal(t, f1.FaceID(), nh)
}

func TestSelectFreshSkipsFaceWithOutRecord(t *testing.T) {
	f1 := face.NewBaseFace("f1", defn.NonLocal, defn.PointToPoint, defn.PersistencyPersistent, nil)
	faces := newFaceTable(f1)

	nexthops := []*table.FibNextHopEntry{{Nexthop: f1.FaceID(), Cost: 10}}
	interest := newTestInterest("/a", time.Second)
	pit := table.NewPitTable()
	pitEntry, _ := pit.InsertInterest(interest)
	pitEntry.InsertOutRecord(interest, f1.FaceID())

	_, ok := SelectFresh(nexthops, 0, interest, pitEntry, faces)
	assert.False(t, ok)
}

func TestSelectUntriedPicksStaleOutRecordFace(t *testing.T) {
	f1 := face.NewBaseFace("f1", defn.NonLocal, defn.PointToPoint, defn.PersistencyPersistent, nil)
	faces := newFaceTable(f1)

	nexthops := []*table.FibNextHopEntry{{Nexthop: f1.FaceID(), Cost: 10}}
	interest := newTestInterest("/a", time.Second)
	pit := table.NewPitTable()
	pitEntry, _ := pit.InsertInterest(interest)
	pitEntry.Suppression().Window = 10 * time.Millisecond
	pitEntry.InsertOutRecord(interest, f1.FaceID())

	now := pitEntry.OutRecords()[f1.FaceID()].LatestTimestamp.Add(20 * time.Millisecond)
	nh, ok := SelectUntried(nexthops, 0, interest, pitEntry, faces, now)
	require.True(t, ok)
	assert.Equal(t, f1.FaceID(), nh)
}

func TestSelectUntriedRejectsFreshOutRecord(t *testing.T) {
	f1 := face.NewBaseFace("f1", defn.NonLocal, defn.PointToPoint, defn.PersistencyPersistent, nil)
	faces := newFaceTable(f1)

	nexthops := []*table.FibNextHopEntry{{Nexthop: f1.FaceID(), Cost: 10}}
	interest := newTestInterest("/a", time.Second)
	pit := table.NewPitTable()
	pitEntry, _ := pit.InsertInterest(interest)
	pitEntry.Suppression().Window = time.Minute
	pitEntry.InsertOutRecord(interest, f1.FaceID())

	now := pitEntry.OutRecords()[f1.FaceID()].LatestTimestamp.Add(time.Millisecond)
	_, ok := SelectUntried(nexthops, 0, interest, pitEntry, faces, now)
	assert.False(t, ok)
}

func TestSelectEarliestOutRecordPicksOldest(t *testing.T) {
	f1 := face.NewBaseFace("f1", defn.NonLocal, defn.PointToPoint, defn.PersistencyPersistent, nil)
	f2 := face.NewBaseFace("f2", defn.NonLocal, defn.PointToPoint, defn.PersistencyPersistent, nil)
	faces := newFaceTable(f1, f2)

	nexthops := []*table.FibNextHopEntry{{Nexthop: f1.FaceID(), Cost: 10}, {Nexthop: f2.FaceID(), Cost: 20}}
	interest := newTestInterest("/a", time.Second)
	pit := table.NewPitTable()
	pitEntry, _ := pit.InsertInterest(interest)

	pitEntry.InsertOutRecord(interest, f1.FaceID())
	time.Sleep(time.Millisecond)
	pitEntry.InsertOutRecord(interest, f2.FaceID())

	nh, ok := SelectEarliestOutRecord(nexthops, 0, interest, pitEntry, faces)
	require.True(t, ok)
	assert.Equal(t, f1.FaceID(), nh)
}

func TestEligibleRejectsScopeViolation(t *testing.T) {
	f1 := face.NewBaseFace("f1", defn.NonLocal, defn.PointToPoint, defn.PersistencyPersistent, nil)
	faces := newFaceTable(f1)
	interest := newTestInterest("/localhost/nfd/status", time.Second)

	_, ok := eligible(f1.FaceID(), 0, interest, faces)
	assert.False(t, ok)
}

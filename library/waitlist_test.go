package library

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationQueueOrder(t *testing.T) {
	q := NewReservationQueue(10)
	require.True(t, q.IsEmpty())

	require.NoError(t, q.Insert(Reservation{PatronID: 7, Priority: 3, Timestamp: 1}))
	require.NoError(t, q.Insert(Reservation{PatronID: 9, Priority: 1, Timestamp: 2}))
	require.NoError(t, q.Insert(Reservation{PatronID: 4, Priority: 3, Timestamp: 0}))
	require.NoError(t, q.Insert(Reservation{PatronID: 5, Priority: 1, Timestamp: 3}))

	first, ok := q.PeekMin()
	require.True(t, ok)
	assert.Equal(t, int64(9), first.PatronID)
	assert.Equal(t, 4, q.Size())

	var got []int64
	for !q.IsEmpty() {
		r, ok := q.ExtractMin()
		require.True(t, ok)
		got = append(got, r.PatronID)
	}
	assert.Equal(t, []int64{9, 5, 4, 7}, got)
}

func TestReservationQueueEmpty(t *testing.T) {
	q := NewReservationQueue(2)
	_, ok := q.PeekMin()
	assert.False(t, ok)
	_, ok = q.ExtractMin()
	assert.False(t, ok)
	assert.Equal(t, []int64{}, q.SnapshotOrdered())
}

func TestReservationQueueCapacity(t *testing.T) {
	q := NewReservationQueue(2)
	require.NoError(t, q.Insert(Reservation{PatronID: 1, Priority: 1, Timestamp: 1}))
	require.NoError(t, q.Insert(Reservation{PatronID: 2, Priority: 1, Timestamp: 2}))

	err := q.Insert(Reservation{PatronID: 3, Priority: 0, Timestamp: 3})
	require.Error(t, err)
	assert.True(t, IsCapacityExceeded(err))
	assert.Equal(t, 2, q.Size())
	assert.Equal(t, []int64{1, 2}, q.SnapshotOrdered())
}

func TestReservationQueueDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultWaitlistCapacity, NewReservationQueue(0).Cap())
	assert.Equal(t, DefaultWaitlistCapacity, NewReservationQueue(-3).Cap())
	assert.Equal(t, 5, NewReservationQueue(5).Cap())
}

// SnapshotOrdered must match a stable sort by (priority, timestamp) and
// leave the extraction order untouched.
func TestReservationQueueSnapshot(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(30)
		q := NewReservationQueue(n)
		var all []Reservation
		for i := 0; i < n; i++ {
			r := Reservation{PatronID: int64(i), Priority: rng.Intn(4), Timestamp: int64(i)}
			all = append(all, r)
			require.NoError(t, q.Insert(r))
		}

		sort.SliceStable(all, func(i, j int) bool { return all[i].before(all[j]) })
		want := make([]int64, len(all))
		for i, r := range all {
			want[i] = r.PatronID
		}

		assert.Equal(t, want, q.SnapshotOrdered())
		assert.Equal(t, want, q.SnapshotOrdered(), "second snapshot")
		require.Equal(t, n, q.Size())

		var drained []int64
		for !q.IsEmpty() {
			r, _ := q.ExtractMin()
			drained = append(drained, r.PatronID)
		}
		assert.Equal(t, want, drained)
	}
}

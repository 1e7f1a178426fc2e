package library

import (
	"container/heap"
	"fmt"
)

// DefaultWaitlistCapacity is the number of reservations a single book
// accepts when no capacity is configured.
const DefaultWaitlistCapacity = 20

// reservationHeap is a binary min-heap ordered by (priority, timestamp).
type reservationHeap []Reservation

func (h reservationHeap) Len() int           { return len(h) }
func (h reservationHeap) Less(i, j int) bool { return h[i].before(h[j]) }
func (h reservationHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *reservationHeap) Push(x interface{}) {
	*h = append(*h, x.(Reservation))
}

func (h *reservationHeap) Pop() interface{} {
	old := *h
	n := len(old)
	r := old[n-1]
	*h = old[:n-1]
	return r
}

// ReservationQueue is the bounded waitlist attached to one book.
type ReservationQueue struct {
	items    reservationHeap
	capacity int
}

// NewReservationQueue returns an empty queue holding at most capacity
// reservations. A non-positive capacity selects DefaultWaitlistCapacity.
func NewReservationQueue(capacity int) *ReservationQueue {
	if capacity <= 0 {
		capacity = DefaultWaitlistCapacity
	}
	return &ReservationQueue{
		items:    make(reservationHeap, 0, capacity),
		capacity: capacity,
	}
}

// Insert adds r and sifts it up into place.
func (q *ReservationQueue) Insert(r Reservation) error {
	if len(q.items) >= q.capacity {
		return fmt.Errorf("patron %d: %w", r.PatronID, ErrCapacityExceeded)
	}
	heap.Push(&q.items, r)
	return nil
}

// ExtractMin removes and returns the reservation served next.
func (q *ReservationQueue) ExtractMin() (Reservation, bool) {
	if len(q.items) == 0 {
		return Reservation{}, false
	}
	return heap.Pop(&q.items).(Reservation), true
}

// PeekMin returns the reservation served next without removing it.
func (q *ReservationQueue) PeekMin() (Reservation, bool) {
	if len(q.items) == 0 {
		return Reservation{}, false
	}
	return q.items[0], true
}

func (q *ReservationQueue) IsEmpty() bool { return len(q.items) == 0 }
func (q *ReservationQueue) Size() int     { return len(q.items) }
func (q *ReservationQueue) Cap() int      { return q.capacity }

// SnapshotOrdered lists the waiting patrons in service order. It drains a
// private copy of the heap array, so the queue itself is never modified.
func (q *ReservationQueue) SnapshotOrdered() []int64 {
	scratch := make(reservationHeap, len(q.items))
	copy(scratch, q.items)

	ids := make([]int64, 0, len(scratch))
	for scratch.Len() > 0 {
		ids = append(ids, heap.Pop(&scratch).(Reservation).PatronID)
	}
	return ids
}

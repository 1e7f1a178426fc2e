package library

// Color is the red-black colour of an index node.
type Color uint8

const (
	Red Color = iota
	Black
)

func (c Color) String() string {
	if c == Red {
		return "RED"
	}
	return "BLACK"
}

// Book is one catalog entry. It is owned by its index node and dropped
// together with it when the book is deleted.
//
// A book that is not Available normally has a borrower, but a book inserted
// as unavailable starts with none until it is deleted.
type Book struct {
	ID        int64
	Title     string
	Author    string
	Available bool

	borrowerID  int64
	hasBorrower bool
	waitlist    *ReservationQueue
}

// Borrower returns the patron currently holding the book, if any.
func (b *Book) Borrower() (int64, bool) {
	return b.borrowerID, b.hasBorrower
}

// Waitlist returns the ids of the patrons waiting for the book in the order
// they would be served. The queue itself is left untouched.
func (b *Book) Waitlist() []int64 {
	if b.waitlist == nil {
		return []int64{}
	}
	return b.waitlist.SnapshotOrdered()
}

// WaitlistLen is the number of pending reservations.
func (b *Book) WaitlistLen() int {
	if b.waitlist == nil {
		return 0
	}
	return b.waitlist.Size()
}

func (b *Book) lendTo(patronID int64) {
	b.borrowerID = patronID
	b.hasBorrower = true
	b.Available = false
}

func (b *Book) release() {
	b.borrowerID = 0
	b.hasBorrower = false
	b.Available = true
}

// Reservation is a patron's claim on an unavailable book. Lower Priority
// values are served first; Timestamp breaks ties, earlier first.
type Reservation struct {
	PatronID  int64
	Priority  int
	Timestamp int64
}

// before reports whether r is served ahead of o.
func (r Reservation) before(o Reservation) bool {
	if r.Priority != o.Priority {
		return r.Priority < o.Priority
	}
	return r.Timestamp < o.Timestamp
}

// BorrowOutcome tells a caller what BorrowBook did.
type BorrowOutcome int

const (
	Borrowed BorrowOutcome = iota + 1
	Reserved
)

func (o BorrowOutcome) String() string {
	switch o {
	case Borrowed:
		return "borrowed"
	case Reserved:
		return "reserved"
	default:
		return "unknown"
	}
}

// ReturnReceipt describes a successful return. When the waitlist was not
// empty the book is handed straight to PromotedPatronID.
type ReturnReceipt struct {
	BookID           int64
	ReturnedBy       int64
	PromotedPatronID int64
	Promoted         bool
}

// DeleteReceipt carries the removed book and the patrons whose
// reservations were cancelled by the removal, in queue order.
type DeleteReceipt struct {
	Book      Book
	Cancelled []int64
}

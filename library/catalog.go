package library

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// LibraryCatalog is the façade callers talk to. It keeps books in an
// OrderedIndex, runs checkout and return against each book's waitlist, and
// counts how many surviving books changed colour across every insert and
// delete.
type LibraryCatalog struct {
	index *OrderedIndex
	clock Clock
	flips int

	// colour snapshots taken around each structural change
	before map[int64]Color
	after  map[int64]Color
}

// NewLibraryCatalog returns an empty catalog.
func NewLibraryCatalog(cfg Config) *LibraryCatalog {
	if cfg.WaitlistCapacity <= 0 {
		cfg.WaitlistCapacity = DefaultWaitlistCapacity
	}
	if cfg.Clock == nil {
		cfg.Clock = NewMonotonicClock()
	}
	return &LibraryCatalog{
		index:  NewOrderedIndex(cfg.WaitlistCapacity),
		clock:  cfg.Clock,
		before: make(map[int64]Color),
		after:  make(map[int64]Color),
	}
}

// Len is the number of books in the catalog.
func (lc *LibraryCatalog) Len() int { return lc.index.Len() }

// FlipCount is the running total of colour changes on books that survived
// an insert or delete.
func (lc *LibraryCatalog) FlipCount() int { return lc.flips }

// ------------------ Book helpers ------------------

// InsertBook adds a book. If the id is taken the catalog is left as it was
// and the existing book is returned together with ErrDuplicateKey.
func (lc *LibraryCatalog) InsertBook(id int64, title, author string, available bool) (Book, error) {
	lc.index.Colors(lc.before)
	book, inserted := lc.index.Insert(id, title, author, available)
	if !inserted {
		log.Debugf("insert book %d ignored: id already present", id)
		return *book, fmt.Errorf("insert book %d: %w", id, ErrDuplicateKey)
	}
	lc.countFlips("insert", id)
	return *book, nil
}

func (lc *LibraryCatalog) FindBook(id int64) (Book, error) {
	book, ok := lc.index.Find(id)
	if !ok {
		return Book{}, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return *book, nil
}

// ListBooks returns the books with low <= id <= high, ascending.
func (lc *LibraryCatalog) ListBooks(low, high int64) []Book {
	return copyBooks(lc.index.Range(low, high))
}

// NearestBook returns the book closest to target, or both neighbours
// (lower id first) when they are equally close.
func (lc *LibraryCatalog) NearestBook(target int64) []Book {
	return copyBooks(lc.index.Nearest(target))
}

// Books returns every book, ascending.
func (lc *LibraryCatalog) Books() []Book {
	return copyBooks(lc.index.All())
}

// DeleteBook removes a book. Any reservations still pending on it are
// cancelled and reported in the order they would have been served.
func (lc *LibraryCatalog) DeleteBook(id int64) (DeleteReceipt, error) {
	lc.index.Colors(lc.before)
	book, ok := lc.index.Delete(id)
	if !ok {
		return DeleteReceipt{}, fmt.Errorf("delete book %d: %w", id, ErrNotFound)
	}
	lc.countFlips("delete", id)

	cancelled := book.waitlist.SnapshotOrdered()
	if len(cancelled) > 0 {
		log.Infof("book %d deleted, cancelled reservations for patrons %v", id, cancelled)
	}
	return DeleteReceipt{Book: *book, Cancelled: cancelled}, nil
}

// ------------------ Circulation ------------------

// BorrowBook lends an available book to patronID. An unavailable book
// instead gets a reservation with the given priority, stamped now.
func (lc *LibraryCatalog) BorrowBook(patronID, bookID int64, priority int) (BorrowOutcome, error) {
	book, ok := lc.index.Find(bookID)
	if !ok {
		return 0, fmt.Errorf("borrow book %d: %w", bookID, ErrNotFound)
	}

	if book.Available {
		book.lendTo(patronID)
		return Borrowed, nil
	}

	r := Reservation{PatronID: patronID, Priority: priority, Timestamp: lc.clock.Now()}
	if err := book.waitlist.Insert(r); err != nil {
		log.Warnf("book %d: reservation by patron %d rejected: %v", bookID, patronID, err)
		return 0, fmt.Errorf("reserve book %d: %w", bookID, err)
	}
	return Reserved, nil
}

// ReturnBook takes a book back from its borrower. If anyone is waiting the
// book goes straight to the first reservation in line.
func (lc *LibraryCatalog) ReturnBook(patronID, bookID int64) (ReturnReceipt, error) {
	book, ok := lc.index.Find(bookID)
	if !ok {
		return ReturnReceipt{}, fmt.Errorf("return book %d: %w", bookID, ErrNotFound)
	}
	borrower, has := book.Borrower()
	if !has {
		return ReturnReceipt{}, fmt.Errorf("return book %d: %w", bookID, ErrNotBorrowed)
	}
	if borrower != patronID {
		return ReturnReceipt{}, fmt.Errorf("return book %d by patron %d: %w", bookID, patronID, ErrUnauthorized)
	}

	book.release()
	receipt := ReturnReceipt{BookID: bookID, ReturnedBy: patronID}

	if next, ok := book.waitlist.ExtractMin(); ok {
		book.lendTo(next.PatronID)
		receipt.PromotedPatronID = next.PatronID
		receipt.Promoted = true
		log.Infof("book %d handed to patron %d from the waitlist", bookID, next.PatronID)
	}
	return receipt, nil
}

// ------------------ Utilities ------------------

// countFlips compares the colours captured in lc.before with the index as
// it is now. Books present in only one of the two snapshots are skipped.
func (lc *LibraryCatalog) countFlips(op string, id int64) {
	lc.index.Colors(lc.after)
	flips := 0
	for key, was := range lc.before {
		if now, ok := lc.after[key]; ok && now != was {
			flips++
		}
	}
	lc.flips += flips
	log.WithFields(log.Fields{
		"op":    op,
		"book":  id,
		"flips": flips,
		"total": lc.flips,
	}).Debug("index restructured")
}

func copyBooks(books []*Book) []Book {
	out := make([]Book, len(books))
	for i, b := range books {
		out[i] = *b
	}
	return out
}

package library

import (
	"path/filepath"
	"testing"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabaseRoundTrip(t *testing.T) {
	db := tempDB(t)
	for _, id := range []int64{30, 10, 20} {
		if err := db.AddBook(id, "Book", "Author", id != 20); err != nil {
			t.Fatalf("add book %d: %v", id, err)
		}
	}
	if err := db.AddBook(10, "Again", "Author", true); err == nil {
		t.Fatalf("expected primary key violation")
	}

	books, err := db.GetAllBooks()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("want 3 books, got %d", len(books))
	}
	for i, want := range []int64{10, 20, 30} {
		if books[i].ID != want {
			t.Fatalf("position %d: want %d, got %d", i, want, books[i].ID)
		}
	}
	if books[1].Available {
		t.Fatalf("book 20 should be unavailable")
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lib.db")
	db, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.AddBook(1, "Book", "Author", true); err != nil {
		t.Fatalf("add: %v", err)
	}
	db.Close()

	db, err = NewDatabase(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	books, err := db.GetAllBooks()
	if err != nil || len(books) != 1 {
		t.Fatalf("want 1 book after reopen, got %d (%v)", len(books), err)
	}
}

func TestImportInto(t *testing.T) {
	db := tempDB(t)
	for _, id := range []int64{5, 1, 9, 3} {
		if err := db.AddBook(id, "Book", "Author", true); err != nil {
			t.Fatalf("add book %d: %v", id, err)
		}
	}

	lc := NewLibraryCatalog(DefaultConfig())
	mustInsert(t, lc, 9, false)

	summary, err := db.ImportInto(lc)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.Inserted != 3 || summary.Duplicates != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if lc.Len() != 4 {
		t.Fatalf("want 4 books, got %d", lc.Len())
	}
	b, err := lc.FindBook(9)
	if err != nil {
		t.Fatalf("find 9: %v", err)
	}
	if b.Available {
		t.Fatalf("import must not overwrite an existing book")
	}
	if err := lc.index.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
}

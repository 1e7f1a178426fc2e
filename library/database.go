package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

// Database is a SQLite book list the catalog can be seeded from. The
// catalog never writes back to it.
type Database struct {
	db *sql.DB

	addBookStmt *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.addBookStmt != nil {
		d.addBookStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            available BOOLEAN NOT NULL DEFAULT 1
        );`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, schemaVersion); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addBookStmt, err = d.db.Prepare(`INSERT INTO books(id,title,author,available) VALUES(?,?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Book rows
// ---------------------------------------------------------------------------

// AddBook stores a row under an explicit id.
func (d *Database) AddBook(id int64, title, author string, available bool) error {
	_, err := d.addBookStmt.Exec(id, title, author, available)
	return err
}

// GetAllBooks returns every stored row ordered by id. The returned books
// have no borrower and an empty waitlist.
func (d *Database) GetAllBooks() ([]Book, error) {
	rows, err := d.db.Query(`SELECT id,title,author,available FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Available); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// ImportSummary counts what ImportInto did.
type ImportSummary struct {
	Inserted   int
	Duplicates int
}

// ImportInto inserts every stored row into lc in id order. Rows whose id is
// already in the catalog are skipped and counted as duplicates.
func (d *Database) ImportInto(lc *LibraryCatalog) (ImportSummary, error) {
	var summary ImportSummary
	books, err := d.GetAllBooks()
	if err != nil {
		return summary, fmt.Errorf("read books: %w", err)
	}
	for _, b := range books {
		_, err := lc.InsertBook(b.ID, b.Title, b.Author, b.Available)
		switch {
		case errors.Is(err, ErrDuplicateKey):
			summary.Duplicates++
		case err != nil:
			return summary, err
		default:
			summary.Inserted++
		}
	}
	log.Infof("imported %d books (%d duplicates skipped)", summary.Inserted, summary.Duplicates)
	return summary, nil
}

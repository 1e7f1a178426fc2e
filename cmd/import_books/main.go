package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"library-catalog/library"
	"library-catalog/script"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// seedBooks is loaded into an empty database by --seed.
var seedBooks = []struct {
	title, author string
}{
	{"1984", "George Orwell"},
	{"Animal Farm", "George Orwell"},
	{"The Diary of a Young Girl", "Anne Frank"},
	{"The Art of War", "Sun Tzu"},
	{"The Fellowship of the Ring", "J.R.R. Tolkien"},
	{"Harry Potter and the Chamber of Secrets", "J.K. Rowling"},
	{"Harry Potter and the Deathly Hallows", "J.K. Rowling"},
	{"Harry Potter and the Half-Blood Prince", "J.K. Rowling"},
	{"Harry Potter and the Order of the Phoenix", "J.K. Rowling"},
	{"Harry Potter and the Prisoner of Azkaban", "J.K. Rowling"},
	{"Harry Potter and the Philosopher's Stone", "J.K. Rowling"},
	{"The Return of the King", "J.R.R. Tolkien"},
	{"Romeo and Juliet", "William Shakespeare"},
	{"The Two Towers", "J.R.R. Tolkien"},
	{"The Three Little Pigs", "Traditional"},
	{"The Three Musketeers", "Alexandre Dumas"},
}

func main() {
	log.SetLevel(log.WarnLevel)
	log.SetOutput(os.Stderr)

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "import_books"
	app.Usage = "turn a SQLite books table into a catalog command script"
	app.HideVersion = true
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "db, d",
			Value: "library.db",
			Usage: " SQLite database `FILE`",
		},
		cli.StringFlag{
			Name:  "out, o",
			Value: "books_script.txt",
			Usage: " write the generated script to `FILE` (\"-\" for stdout)",
		},
		cli.BoolFlag{
			Name:  "seed, s",
			Usage: " load the built-in classics into an empty database first",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " log import progress",
		},
	}
	app.Action = runImport
	return app
}

func runImport(c *cli.Context) error {
	if c.Bool("verbose") {
		log.SetLevel(log.InfoLevel)
	}
	w := c.App.Writer

	db, err := library.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if c.Bool("seed") {
		n, err := seed(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Seeded %d books.\n", n)
	}

	lc := library.NewLibraryCatalog(library.DefaultConfig())
	summary, err := db.ImportInto(lc)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nImport complete!\n")
	fmt.Fprintf(w, "Successfully imported: %d books\n", summary.Inserted)
	fmt.Fprintf(w, "Duplicates skipped: %d\n", summary.Duplicates)

	books := lc.Books()
	if len(books) > 0 {
		fmt.Fprintln(w, "\nImported books:")
		printBooks(w, books)
	}

	return writeScriptFile(c.String("out"), c.String("db"), books, w)
}

// seed fills an empty database with seedBooks under ids 1..n.
func seed(db *library.Database) (int, error) {
	existing, err := db.GetAllBooks()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Warnf("database already has %d books, not seeding", len(existing))
		return 0, nil
	}
	for i, b := range seedBooks {
		if err := db.AddBook(int64(i+1), b.title, b.author, true); err != nil {
			return i, fmt.Errorf("seed %q: %w", b.title, err)
		}
	}
	return len(seedBooks), nil
}

func printBooks(w io.Writer, books []library.Book) {
	fmt.Fprintf(w, "%-5s %-50s %-30s\n", "ID", "Title", "Author")
	fmt.Fprintln(w, strings.Repeat("-", 87))
	for _, book := range books {
		fmt.Fprintf(w, "%-5d %-50s %-30s\n", book.ID, script.Truncate(book.Title, 50), script.Truncate(book.Author, 30))
	}
}

func writeScriptFile(path, source string, books []library.Book, stdout io.Writer) error {
	if path == "-" {
		return writeScript(stdout, source, books)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	if err := writeScript(f, source, books); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nScript written to %s\n", path)
	return nil
}

// writeScript emits one InsertBook line per book, preceded by comment lines
// naming the source and the sha3-512 fingerprint of the command lines.
func writeScript(w io.Writer, source string, books []library.Book) error {
	var body bytes.Buffer
	for _, b := range books {
		avail := "Yes"
		if !b.Available {
			avail = "No"
		}
		fmt.Fprintf(&body, "InsertBook(%d, %s, %s, %q)\n", b.ID, quote(b.Title), quote(b.Author), avail)
	}

	fmt.Fprintf(w, "# generated from %s\n", source)
	fmt.Fprintf(w, "%s%s\n", script.FingerprintPrefix, script.Fingerprint(body.Bytes()))
	_, err := body.WriteTo(w)
	return err
}

// quote wraps s for the script parser, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

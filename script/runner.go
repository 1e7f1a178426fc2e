package script

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"library-catalog/library"

	log "github.com/sirupsen/logrus"
)

// Runner executes commands against one catalog and writes the rendered
// results to an output stream.
type Runner struct {
	catalog *library.LibraryCatalog
	w       *bufio.Writer
	line    int
	done    bool
}

func NewRunner(lc *library.LibraryCatalog, out io.Writer) *Runner {
	return &Runner{catalog: lc, w: bufio.NewWriter(out)}
}

// Done reports whether Quit() has been executed.
func (r *Runner) Done() bool { return r.done }

// Run executes every line of in until the input ends or Quit() is seen.
// Blank lines and lines starting with '#' are skipped.
func (r *Runner) Run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for !r.done && sc.Scan() {
		if err := r.Exec(sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return r.w.Flush()
}

// Exec runs a single line. Catalog outcomes, including rejected commands,
// are rendered rather than returned; the error is only for output failures.
func (r *Runner) Exec(line string) error {
	r.line++
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	cmd, err := Parse(line)
	if err != nil {
		fmt.Fprintln(r.w, "Invalid catalog operation")
		return r.w.Flush()
	}
	cmd.Line = r.line
	log.WithFields(log.Fields{"line": cmd.Line, "command": cmd.Name}).Debug("exec")

	h, ok := handlers[cmd.Name]
	if !ok {
		fmt.Fprintln(r.w, "Invalid catalog operation")
		return r.w.Flush()
	}
	if err := h(r, cmd); err != nil {
		fmt.Fprintf(r.w, "Error on line %d: %v\n", cmd.Line, err)
	}
	return r.w.Flush()
}

// Commands lists the command names Exec understands, sorted.
func Commands() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ------------------ Handlers ------------------

type handler func(r *Runner, c Command) error

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"InsertBook":      (*Runner).insertBook,
		"PrintBook":       (*Runner).printBook,
		"PrintBooks":      (*Runner).printBooks,
		"BorrowBook":      (*Runner).borrowBook,
		"ReturnBook":      (*Runner).returnBook,
		"DeleteBook":      (*Runner).deleteBook,
		"FindClosestBook": (*Runner).findClosestBook,
		"ColorFlipCount":  (*Runner).colorFlipCount,
		"Quit":            (*Runner).quit,
	}
}

func (r *Runner) insertBook(c Command) error {
	if err := c.arity(4); err != nil {
		return err
	}
	id, err := c.int64Arg(0, "book id")
	if err != nil {
		return err
	}
	available, err := c.availabilityArg(3)
	if err != nil {
		return err
	}
	if _, err := r.catalog.InsertBook(id, c.Args[1], c.Args[2], available); err != nil && !library.IsDuplicateKey(err) {
		return err
	}
	return nil
}

func (r *Runner) printBook(c Command) error {
	if err := c.arity(1); err != nil {
		return err
	}
	id, err := c.int64Arg(0, "book id")
	if err != nil {
		return err
	}
	b, err := r.catalog.FindBook(id)
	if err != nil {
		writeNotFound(r.w, id)
		return nil
	}
	writeBook(r.w, b)
	return nil
}

func (r *Runner) printBooks(c Command) error {
	if err := c.arity(2); err != nil {
		return err
	}
	low, err := c.int64Arg(0, "lower bound")
	if err != nil {
		return err
	}
	high, err := c.int64Arg(1, "upper bound")
	if err != nil {
		return err
	}
	writeBooks(r.w, r.catalog.ListBooks(low, high))
	return nil
}

func (r *Runner) borrowBook(c Command) error {
	if err := c.arity(3); err != nil {
		return err
	}
	patron, err := c.int64Arg(0, "patron id")
	if err != nil {
		return err
	}
	id, err := c.int64Arg(1, "book id")
	if err != nil {
		return err
	}
	priority, err := c.intArg(2, "priority")
	if err != nil {
		return err
	}

	outcome, err := r.catalog.BorrowBook(patron, id, priority)
	switch {
	case library.IsNotFound(err):
		return nil
	case library.IsCapacityExceeded(err):
		fmt.Fprintf(r.w, "Book %d waitlist is full, reservation by Patron %d rejected\n", id, patron)
		return nil
	case err != nil:
		return err
	}
	verb := "Borrowed"
	if outcome == library.Reserved {
		verb = "Reserved"
	}
	fmt.Fprintf(r.w, "Book %d %s by Patron %d\n", id, verb, patron)
	return nil
}

func (r *Runner) returnBook(c Command) error {
	if err := c.arity(2); err != nil {
		return err
	}
	patron, err := c.int64Arg(0, "patron id")
	if err != nil {
		return err
	}
	id, err := c.int64Arg(1, "book id")
	if err != nil {
		return err
	}

	receipt, err := r.catalog.ReturnBook(patron, id)
	if err != nil {
		if library.IsNotFound(err) || library.IsUnauthorized(err) || library.IsNotBorrowed(err) {
			log.Debugf("return ignored: %v", err)
			return nil
		}
		return err
	}
	fmt.Fprintf(r.w, "Book %d Returned by Patron %d\n", id, patron)
	if receipt.Promoted {
		fmt.Fprintf(r.w, "Book %d Allotted to Patron %d\n", id, receipt.PromotedPatronID)
	}
	return nil
}

func (r *Runner) deleteBook(c Command) error {
	if err := c.arity(1); err != nil {
		return err
	}
	id, err := c.int64Arg(0, "book id")
	if err != nil {
		return err
	}
	receipt, err := r.catalog.DeleteBook(id)
	if err != nil && !library.IsNotFound(err) {
		return err
	}
	writeDeleted(r.w, id, receipt.Cancelled)
	return nil
}

func (r *Runner) findClosestBook(c Command) error {
	if err := c.arity(1); err != nil {
		return err
	}
	target, err := c.int64Arg(0, "target id")
	if err != nil {
		return err
	}
	writeBooks(r.w, r.catalog.NearestBook(target))
	return nil
}

func (r *Runner) colorFlipCount(c Command) error {
	if err := c.arity(0); err != nil {
		return err
	}
	fmt.Fprintf(r.w, "Color Flip Count : %d\n", r.catalog.FlipCount())
	return nil
}

func (r *Runner) quit(c Command) error {
	fmt.Fprintln(r.w, "Program Terminated!!")
	r.done = true
	return nil
}

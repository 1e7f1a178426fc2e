package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"library-catalog/library"
	"library-catalog/script"

	"github.com/chzyer/readline"
	log "github.com/sirupsen/logrus"
)

func usage(w io.Writer) {
	io.WriteString(w, `
Available commands:
	InsertBook(<id>, "<title>", "<author>", "Yes"|"No")
	PrintBook(<id>)
	PrintBooks(<low>, <high>)
	BorrowBook(<patron>, <id>, <priority>)
	ReturnBook(<patron>, <id>)
	DeleteBook(<id>)
	FindClosestBook(<id>)
	ColorFlipCount()
	Quit()
	list
	set-log-level <log-level>
	help
	exit
`[1:])
}

func completer() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("list"),
		readline.PcItem("help"),
		readline.PcItem("set-log-level",
			readline.PcItem("debug"),
			readline.PcItem("info"),
			readline.PcItem("warn"),
			readline.PcItem("error"),
		),
		readline.PcItem("exit"),
	}
	for _, name := range script.Commands() {
		items = append(items, readline.PcItem(name+"("))
	}
	return readline.NewPrefixCompleter(items...)
}

func runConsole(lc *library.LibraryCatalog) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31m»\033[0m ",
		HistoryFile:     filepath.Join(os.TempDir(), "library-catalog-readline.tmp"),
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("open console: %w", err)
	}
	defer l.Close()

	log.SetOutput(l.Stderr())
	defer log.SetOutput(os.Stderr)

	fmt.Fprintln(l.Stdout(), "Library catalog console. Type 'help' for commands.")
	runner := script.NewRunner(lc, l.Stdout())
	for {
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if err != nil {
			return nil
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case line == "exit":
			return nil
		case line == "help":
			usage(l.Stderr())
		case line == "list":
			listBooks(l.Stdout(), lc)
		case strings.HasPrefix(line, "set-log-level "):
			if err := setLogLevel(strings.TrimSpace(line[len("set-log-level "):])); err != nil {
				log.Error(err)
			}
		default:
			if err := runner.Exec(line); err != nil {
				return err
			}
			if runner.Done() {
				return nil
			}
		}
	}
}

func listBooks(w io.Writer, lc *library.LibraryCatalog) {
	books := lc.Books()
	if len(books) == 0 {
		fmt.Fprintln(w, "No books in library.")
		return
	}

	fmt.Fprintf(w, "%-8s %-30s %-25s %-10s %-10s %s\n", "ID", "Title", "Author", "Available", "Borrower", "Reservation Queue")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, b := range books {
		availStr := "Yes"
		if !b.Available {
			availStr = "No"
		}
		borrower := "None"
		if who, ok := b.Borrower(); ok {
			borrower = strconv.FormatInt(who, 10)
		}
		queue := "None"
		if waiting := b.Waitlist(); len(waiting) > 0 {
			parts := make([]string, len(waiting))
			for i, id := range waiting {
				parts[i] = fmt.Sprintf("%d. %d", i+1, id)
			}
			queue = strings.Join(parts, ", ")
		}
		fmt.Fprintf(w, "%-8d %-30s %-25s %-10s %-10s %s\n",
			b.ID,
			script.Truncate(b.Title, 30),
			script.Truncate(b.Author, 25),
			availStr,
			borrower,
			queue)
	}
	fmt.Fprintf(w, "%d book(s), color flip count %d\n", lc.Len(), lc.FlipCount())
}

package script

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"library-catalog/library"
)

func writeBook(w io.Writer, b library.Book) {
	avail := "No"
	if b.Available {
		avail = "Yes"
	}
	borrowedBy := "None"
	if who, ok := b.Borrower(); ok {
		borrowedBy = strconv.FormatInt(who, 10)
	}
	fmt.Fprintf(w, "BookID = %d\n", b.ID)
	fmt.Fprintf(w, "Title = \"%s\"\n", b.Title)
	fmt.Fprintf(w, "Author = \"%s\"\n", b.Author)
	fmt.Fprintf(w, "Availability = \"%s\"\n", avail)
	fmt.Fprintf(w, "BorrowedBy = %s\n", borrowedBy)
	fmt.Fprintf(w, "Reservations = [%s]\n\n", joinIDs(b.Waitlist()))
}

func writeBooks(w io.Writer, books []library.Book) {
	for _, b := range books {
		writeBook(w, b)
	}
}

func writeNotFound(w io.Writer, id int64) {
	fmt.Fprintf(w, "Book %d not found in the library\n", id)
}

func writeDeleted(w io.Writer, id int64, cancelled []int64) {
	if len(cancelled) == 0 {
		fmt.Fprintf(w, "Book %d is no longer available.\n", id)
		return
	}
	fmt.Fprintf(w, "Book %d is no longer available. Reservations made by Patrons %s have been cancelled!\n",
		id, joinIDs(cancelled))
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// Truncate shortens s to maxLen bytes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

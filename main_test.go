package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"library-catalog/library"
	"library-catalog/script"

	log "github.com/sirupsen/logrus"
)

const sampleScript = `InsertBook(1, "Dune", "Frank Herbert", "Yes")
BorrowBook(5, 1, 1)
BorrowBook(6, 1, 2)
ReturnBook(5, 1)
ColorFlipCount()
Quit()
DeleteBook(1)
`

const sampleOutput = `Book 1 Borrowed by Patron 5
Book 1 Reserved by Patron 6
Book 1 Returned by Patron 5
Book 1 Allotted to Patron 6
Color Flip Count : 0
Program Terminated!!
`

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestOutputPathFor(t *testing.T) {
	tests := []struct{ in, want string }{
		{"input.txt", "input_output_file.txt"},
		{"dir/test1.txt", "dir/test1_output_file.txt"},
		{"noext", "noext_output_file.txt"},
	}
	for _, tt := range tests {
		if got := outputPathFor(tt.in); got != tt.want {
			t.Errorf("outputPathFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRunCommandWritesOutputFile(t *testing.T) {
	in := writeScript(t, "sample.txt", sampleScript)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", in})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := os.ReadFile(outputPathFor(in))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != sampleOutput {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestRunCommandFlags(t *testing.T) {
	in := writeScript(t, "full.txt", `InsertBook(1, "T", "A", "No")
BorrowBook(2, 1, 1)
BorrowBook(3, 1, 1)
`)
	out := filepath.Join(t.TempDir(), "custom.txt")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", "--waitlist-capacity", "1", "--log-level", "error", "-o", out, in})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(got), "waitlist is full, reservation by Patron 3 rejected") {
		t.Fatalf("capacity flag not applied:\n%s", got)
	}
	if log.GetLevel() != log.ErrorLevel {
		t.Fatalf("log level %v", log.GetLevel())
	}
	log.SetLevel(log.WarnLevel)
}

func TestRunMissingScript(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", filepath.Join(t.TempDir(), "absent.txt")})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a missing script")
	}
}

func TestRunCommandChecksFingerprint(t *testing.T) {
	header := "# generated from test.db\n" + script.FingerprintPrefix + script.Fingerprint([]byte(sampleScript)) + "\n"

	signed := writeScript(t, "signed.txt", header+sampleScript)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", signed})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run signed script: %v", err)
	}
	got, err := os.ReadFile(outputPathFor(signed))
	if err != nil || string(got) != sampleOutput {
		t.Fatalf("signed script output %q (%v)", got, err)
	}

	tampered := writeScript(t, "tampered.txt", header+strings.Replace(sampleScript, "Dune", "Emma", 1))
	cmd = newRootCmd()
	cmd.SetArgs([]string{"run", tampered})
	cmd.SetErr(&bytes.Buffer{})
	err = cmd.Execute()
	if !errors.Is(err, script.ErrFingerprint) {
		t.Fatalf("want ErrFingerprint, got %v", err)
	}
	if _, err := os.Stat(outputPathFor(tampered)); !os.IsNotExist(err) {
		t.Fatalf("no output file should be written for a tampered script")
	}
}

func TestSetLogLevel(t *testing.T) {
	defer log.SetLevel(log.WarnLevel)
	if err := setLogLevel("debug"); err != nil || log.GetLevel() != log.DebugLevel {
		t.Fatalf("debug: %v", err)
	}
	if err := setLogLevel("loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestListBooks(t *testing.T) {
	lc := library.NewLibraryCatalog(library.DefaultConfig())
	var buf bytes.Buffer
	listBooks(&buf, lc)
	if buf.String() != "No books in library.\n" {
		t.Fatalf("empty listing: %q", buf.String())
	}

	lc.InsertBook(2, "A Very Long Title That Will Not Fit In The Column", "Author", true)
	lc.InsertBook(1, "Short", "Author", true)
	lc.BorrowBook(10, 1, 1)
	lc.BorrowBook(11, 1, 1)

	buf.Reset()
	listBooks(&buf, lc)
	out := buf.String()
	for _, want := range []string{"A Very Long Title That Will...", "1. 11", "2 book(s), color flip count 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Short") > strings.Index(out, "A Very Long") {
		t.Error("books should be listed in id order")
	}
}

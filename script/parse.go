// Package script runs catalog command files such as
//
//	InsertBook(12, "Dune", "Frank Herbert", "Yes")
//	BorrowBook(7, 12, 1)
//	Quit()
//
// against a library.LibraryCatalog and renders the results as text.
package script

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("malformed command")

// Command is one parsed line.
type Command struct {
	Name string
	Args []string
	Line int
}

// Parse splits "Name(arg, arg, ...)" into its name and arguments. Quoted
// arguments may contain commas; the quotes themselves are dropped.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	start := strings.IndexByte(line, '(')
	end := strings.LastIndexByte(line, ')')
	if start <= 0 || end < start {
		return Command{}, fmt.Errorf("%q: %w", line, ErrSyntax)
	}
	cmd := Command{Name: strings.TrimSpace(line[:start])}

	inner := strings.TrimSpace(line[start+1 : end])
	if inner == "" {
		return cmd, nil
	}
	args, err := splitArgs(inner)
	if err != nil {
		return Command{}, fmt.Errorf("%s arguments: %v: %w", cmd.Name, err, ErrSyntax)
	}
	cmd.Args = args
	return cmd, nil
}

// splitArgs splits on commas outside double quotes. A field that starts with
// a quote runs to the matching close quote, with "" standing for one literal
// quote, and may be followed only by spaces before the next comma. Quotes
// inside an unquoted field are kept as text.
func splitArgs(s string) ([]string, error) {
	var (
		args  []string
		field strings.Builder
	)
	i := 0
	for {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		field.Reset()

		if i < len(s) && s[i] == '"' {
			i++
			for {
				if i >= len(s) {
					return nil, errors.New("unterminated quote")
				}
				if s[i] == '"' {
					if i+1 < len(s) && s[i+1] == '"' {
						field.WriteByte('"')
						i += 2
						continue
					}
					i++
					break
				}
				field.WriteByte(s[i])
				i++
			}
			for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
				i++
			}
			if i < len(s) && s[i] != ',' {
				return nil, fmt.Errorf("unexpected %q after closing quote", s[i])
			}
			args = append(args, field.String())
		} else {
			j := strings.IndexByte(s[i:], ',')
			if j < 0 {
				j = len(s) - i
			}
			args = append(args, strings.TrimSpace(s[i:i+j]))
			i += j
		}

		if i >= len(s) {
			return args, nil
		}
		i++ // comma
	}
}

// ------------------ Argument helpers ------------------

func (c Command) arity(n int) error {
	if len(c.Args) != n {
		return fmt.Errorf("%s takes %d arguments, got %d: %w", c.Name, n, len(c.Args), ErrSyntax)
	}
	return nil
}

func (c Command) int64Arg(i int, what string) (int64, error) {
	v, err := strconv.ParseInt(c.Args[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: bad %s %q: %w", c.Name, what, c.Args[i], ErrSyntax)
	}
	return v, nil
}

func (c Command) intArg(i int, what string) (int, error) {
	v, err := strconv.Atoi(c.Args[i])
	if err != nil {
		return 0, fmt.Errorf("%s: bad %s %q: %w", c.Name, what, c.Args[i], ErrSyntax)
	}
	return v, nil
}

func (c Command) availabilityArg(i int) (bool, error) {
	switch {
	case strings.EqualFold(c.Args[i], "Yes"):
		return true, nil
	case strings.EqualFold(c.Args[i], "No"):
		return false, nil
	}
	return false, fmt.Errorf("%s: availability must be Yes or No, got %q: %w", c.Name, c.Args[i], ErrSyntax)
}

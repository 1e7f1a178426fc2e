package script

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// FingerprintPrefix starts the header comment that carries the sha3-512 of
// every line after it.
const FingerprintPrefix = "# sha3-512: "

var ErrFingerprint = errors.New("script fingerprint mismatch")

// Fingerprint returns the hex sha3-512 of body.
func Fingerprint(body []byte) string {
	sum := sha3.Sum512(body)
	return fmt.Sprintf("%x", sum)
}

// VerifyFingerprint checks the fingerprint header among the leading comment
// lines of data against the bytes that follow that header. Scripts without
// the header are accepted.
func VerifyFingerprint(data []byte) error {
	rest := data
	for len(rest) > 0 && rest[0] == '#' {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			return nil
		}
		line := strings.TrimRight(string(rest[:i]), "\r")
		rest = rest[i+1:]
		if !strings.HasPrefix(line, FingerprintPrefix) {
			continue
		}
		want := strings.TrimSpace(line[len(FingerprintPrefix):])
		if got := Fingerprint(rest); got != want {
			return fmt.Errorf("%w: header %.16s..., content %.16s...", ErrFingerprint, want, got)
		}
		return nil
	}
	return nil
}

package detector

import (
	"errors"
	"fmt"

	"github.com/byte4ever/hashcheck/algorithm"
	"github.com/byte4ever/hashcheck/record"
)

// ErrUndetected is returned when no data line has a hex token whose
// length maps to an algorithm.
var ErrUndetected = errors.New("algorithm not detected")

// Table maps a hex digest length to the algorithm assumed to have
// produced it.
type Table map[int]algorithm.Algorithm

// DefaultTable maps the lengths of the core algorithms:
// 32 md5, 40 sha1, 56 sha224, 64 sha256, 96 sha384, 128 sha512.
func DefaultTable() Table {
	tb := make(Table, len(algorithm.Supported()))

	for _, al := range algorithm.Supported() {
		tb[al.HexLen()] = al
	}

	return tb
}

// Lookup returns the algorithm for a hex length.
func (tb Table) Lookup(hexLen int) (algorithm.Algorithm, bool) {
	al, ok := tb[hexLen]

	return al, ok
}

// Validate checks that every entry names a supported algorithm.
func (tb Table) Validate() error {
	const errCtx = "validating length table"

	for ln, al := range tb {
		if ln <= 0 {
			return fmt.Errorf("%s: invalid length %d", errCtx, ln)
		}

		if !al.Valid() {
			return fmt.Errorf(
				"%s: length %d: %w: %q",
				errCtx, ln, algorithm.ErrUnsupported, string(al),
			)
		}
	}

	return nil
}

// Detect returns the algorithm of the first data line in content
// whose token length is known to tb. Empty content is a malformed
// record rather than an undetected one.
func Detect(content string, tb Table) (algorithm.Algorithm, error) {
	const errCtx = "detecting algorithm"

	if content == "" {
		return "", fmt.Errorf("%s: %w: empty", errCtx, record.ErrMalformed)
	}

	for _, tok := range record.HexTokens(content) {
		if al, ok := tb.Lookup(len(tok)); ok {
			return al, nil
		}
	}

	return "", fmt.Errorf("%s: %w", errCtx, ErrUndetected)
}

// DetectFile reads the record at path and runs Detect on it.
func DetectFile(path string, tb Table) (algorithm.Algorithm, error) {
	const errCtx = "detecting algorithm from file"

	content, err := record.Read(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	al, err := Detect(content, tb)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return al, nil
}

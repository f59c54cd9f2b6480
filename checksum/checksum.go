package checksum

import (
	"crypto/subtle"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/byte4ever/hashcheck/algorithm"
	"github.com/byte4ever/hashcheck/digester"
	"github.com/byte4ever/hashcheck/record"
)

// Result is the outcome of comparing a file against a record.
type Result struct {
	Target    string              `json:"target"`
	Record    string              `json:"record"`
	Algorithm algorithm.Algorithm `json:"algorithm"`
	Expected  string              `json:"expected"`
	Actual    string              `json:"actual"`
	Match     bool                `json:"match"`
}

// Generate computes the digest of target and returns the record to
// persist. Filename is the base name of target.
func Generate(
	target string,
	al algorithm.Algorithm,
) (record.Record, error) {
	const errCtx = "generating record"

	dg, err := digester.Calculate(target, al)
	if err != nil {
		return record.Record{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return record.Record{
		Algorithm: al,
		Digest:    dg,
		Filename:  filepath.Base(target),
	}, nil
}

// Compare recomputes the digest of target with al and checks it
// against the first data line of the record at recordPath. The
// algorithm is used as given and never re-derived from the record.
func Compare(
	target string,
	recordPath string,
	al algorithm.Algorithm,
) (Result, error) {
	const errCtx = "comparing digests"

	actual, err := digester.Calculate(target, al)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	content, err := record.Read(recordPath)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	expected, err := record.ExtractDigest(content)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %s: %w", errCtx, recordPath, err)
	}

	return Result{
		Target:    target,
		Record:    recordPath,
		Algorithm: al,
		Expected:  expected,
		Actual:    actual,
		Match:     Equal(actual, expected),
	}, nil
}

// Equal compares two hex digests ignoring case, in constant time for
// inputs of equal length.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(a)),
		[]byte(strings.ToLower(b)),
	) == 1
}

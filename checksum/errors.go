package checksum

import (
	"errors"

	"github.com/byte4ever/hashcheck/algorithm"
	"github.com/byte4ever/hashcheck/config"
	"github.com/byte4ever/hashcheck/detector"
	"github.com/byte4ever/hashcheck/digester"
	"github.com/byte4ever/hashcheck/record"
)

// ErrNoSelection is returned when an operation needs a file the user
// has not selected yet.
var ErrNoSelection = errors.New("no file selected")

// ErrMismatch is returned by Controller.CompareRecord when the
// digests differ.
var ErrMismatch = errors.New("digest mismatch")

// ErrorKind names the class of a failure for display.
type ErrorKind string

const (
	KindNone            ErrorKind = ""
	KindNotFound        ErrorKind = "not_found"
	KindIO              ErrorKind = "io"
	KindConfiguration   ErrorKind = "configuration"
	KindMalformedRecord ErrorKind = "malformed_record"
	KindUndetected      ErrorKind = "undetected"
	KindNoSelection     ErrorKind = "no_selection"
	KindMismatch        ErrorKind = "mismatch"
	KindUnknown         ErrorKind = "unknown"
)

// Kind classifies err. The checks run from most to least specific
// because a single error may wrap several sentinels.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNoSelection):
		return KindNoSelection
	case errors.Is(err, ErrMismatch):
		return KindMismatch
	case errors.Is(err, record.ErrMalformed):
		return KindMalformedRecord
	case errors.Is(err, detector.ErrUndetected):
		return KindUndetected
	case errors.Is(err, algorithm.ErrUnsupported),
		errors.Is(err, config.ErrInvalid):
		return KindConfiguration
	case errors.Is(err, digester.ErrNotFound):
		return KindNotFound
	case errors.Is(err, digester.ErrIO):
		return KindIO
	default:
		return KindUnknown
	}
}

package digester

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/byte4ever/hashcheck/algorithm"
)

// ChunkSize is the read size used when streaming input into a hash.
const ChunkSize = 4096

var (
	// ErrNotFound is returned when the input file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrIO is returned for read or write failures other than a
	// missing file.
	ErrIO = errors.New("i/o failure")
)

// Calculate computes the hex digest of the file at path using al.
// The algorithm is validated before the file is touched.
func Calculate(path string, al algorithm.Algorithm) (result string, retErr error) {
	const errCtx = "calculating digest"

	ha, err := al.New()
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	fi, err := os.Open(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, Classify(err))
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			result = ""
			retErr = fmt.Errorf("%s: %w: %w", errCtx, ErrIO, closeErr)
		}
	}()

	if err := stream(ha, fi); err != nil {
		return "", fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return hex.EncodeToString(ha.Sum(nil)), nil
}

// Sum computes the hex digest of everything readable from rd.
func Sum(rd io.Reader, al algorithm.Algorithm) (string, error) {
	const errCtx = "summing reader"

	ha, err := al.New()
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := stream(ha, rd); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return hex.EncodeToString(ha.Sum(nil)), nil
}

// Classify wraps an error from opening or reading a file with
// ErrNotFound or ErrIO. Nil stays nil.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
}

// stream copies rd into w ChunkSize bytes at a time. io.Copy is not
// used because *os.File's WriteTo would pick its own buffer size.
func stream(w io.Writer, rd io.Reader) error {
	buf := make([]byte, ChunkSize)

	for {
		n, err := rd.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("%w: %w", ErrIO, werr)
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
}

package algorithm

import (
	"crypto/md5"  //nolint:gosec // md5 is a supported checksum, not a signature
	"crypto/sha1" //nolint:gosec // sha1 is a supported checksum, not a signature
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Algorithm names a digest algorithm. Values are the lowercase names
// written into record headers.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA224 Algorithm = "sha224"
	SHA256 Algorithm = "sha256"
	SHA384 Algorithm = "sha384"
	SHA512 Algorithm = "sha512"

	SHA3_224 Algorithm = "sha3-224"
	SHA3_256 Algorithm = "sha3-256"
	SHA3_384 Algorithm = "sha3-384"
	SHA3_512 Algorithm = "sha3-512"
)

// ErrUnsupported is returned for an algorithm outside the supported
// set, including the empty selection.
var ErrUnsupported = errors.New("unsupported algorithm")

var constructors = map[Algorithm]func() hash.Hash{
	MD5:    md5.New,
	SHA1:   sha1.New,
	SHA224: sha256.New224,
	SHA256: sha256.New,
	SHA384: sha512.New384,
	SHA512: sha512.New,

	SHA3_224: sha3.New224,
	SHA3_256: sha3.New256,
	SHA3_384: sha3.New384,
	SHA3_512: sha3.New512,
}

// Supported returns the core algorithms in menu order. The first
// entry is the default selection.
func Supported() []Algorithm {
	return []Algorithm{MD5, SHA1, SHA224, SHA256, SHA384, SHA512}
}

// Extended returns the algorithms that can be selected explicitly
// but are never inferred by the default detection table.
func Extended() []Algorithm {
	return []Algorithm{SHA3_224, SHA3_256, SHA3_384, SHA3_512}
}

// Default is the selection used when nothing else is configured.
func Default() Algorithm {
	return MD5
}

// Parse maps a user supplied name to an Algorithm. Matching ignores
// case and surrounding spaces, so "SHA256" and " sha256" both parse.
func Parse(name string) (Algorithm, error) {
	const errCtx = "parsing algorithm"

	al := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if al == "" {
		return "", fmt.Errorf("%s: %w: no algorithm selected", errCtx, ErrUnsupported)
	}

	if _, ok := constructors[al]; !ok {
		return "", fmt.Errorf("%s: %w: %q", errCtx, ErrUnsupported, name)
	}

	return al, nil
}

// New returns a fresh streaming hash for al.
func (al Algorithm) New() (hash.Hash, error) {
	ctor, ok := constructors[al]
	if !ok {
		if al == "" {
			return nil, fmt.Errorf("%w: no algorithm selected", ErrUnsupported)
		}

		return nil, fmt.Errorf("%w: %q", ErrUnsupported, string(al))
	}

	return ctor(), nil
}

// HexLen returns the length of al's digest in hex characters, or 0
// when al is not supported.
func (al Algorithm) HexLen() int {
	ctor, ok := constructors[al]
	if !ok {
		return 0
	}

	return ctor().Size() * 2
}

// Valid reports whether al is a supported algorithm.
func (al Algorithm) Valid() bool {
	_, ok := constructors[al]

	return ok
}

func (al Algorithm) String() string {
	return string(al)
}

// Upper returns the display form used in user messages, e.g. "SHA256".
func (al Algorithm) Upper() string {
	return strings.ToUpper(string(al))
}

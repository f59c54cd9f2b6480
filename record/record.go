package record

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/hashcheck/algorithm"
	"github.com/byte4ever/hashcheck/digester"
)

const (
	// DefaultHeader is the comment line template written above the
	// data line.
	DefaultHeader = "# Generated using {algorithm}"

	// DefaultName is the suggested record file name template.
	DefaultName = "{name}.{algorithm}"
)

// ErrMalformed is returned when a record is empty or holds no line
// starting with a hex token followed by whitespace.
var ErrMalformed = errors.New("malformed digest record")

// hexPrefix matches the leading hex token of a trimmed line. The
// separator after it must satisfy unicode.IsSpace, the definition
// strings.TrimSpace uses; RE2's \s is ASCII only.
var hexPrefix = regexp.MustCompile(`^[a-fA-F0-9]+`)

// lineBreaks maps CRLF and lone CR line endings to LF.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Record is one digest of one file.
type Record struct {
	Algorithm algorithm.Algorithm `json:"algorithm,omitempty"`
	Digest    string              `json:"digest"`
	Filename  string              `json:"filename"`
}

// Format holds the templates used to render a record and to suggest
// its file name. Available placeholders are {algorithm}, {ALGORITHM},
// {name} and {digest}. Unknown placeholders are kept as-is.
type Format struct {
	Header string
	Name   string
}

// DefaultFormat returns the format producing
//
//	# Generated using <algorithm>
//	<hex-digest>  <original-filename>
func DefaultFormat() Format {
	return Format{Header: DefaultHeader, Name: DefaultName}
}

// Render returns the full text of rec.
func (fo Format) Render(rec Record) string {
	var sb strings.Builder

	header := fo.Header
	if header == "" {
		header = DefaultHeader
	}

	sb.WriteString(fasttemplate.ExecuteStringStd(
		header, "{", "}", vars(rec),
	))
	sb.WriteByte('\n')
	sb.WriteString(rec.Digest)
	sb.WriteString("  ")
	sb.WriteString(rec.Filename)
	sb.WriteByte('\n')

	return sb.String()
}

// SuggestName returns the default record file name for a digest of
// target computed with al, e.g. "a.txt.sha256".
func (fo Format) SuggestName(target string, al algorithm.Algorithm) string {
	name := fo.Name
	if name == "" {
		name = DefaultName
	}

	return fasttemplate.ExecuteStringStd(
		name, "{", "}",
		vars(Record{Algorithm: al, Filename: filepath.Base(target)}),
	)
}

// Write renders rec to w.
func (fo Format) Write(w io.Writer, rec Record) error {
	const errCtx = "writing record"

	if _, err := io.WriteString(w, fo.Render(rec)); err != nil {
		return fmt.Errorf("%s: %w: %w", errCtx, digester.ErrIO, err)
	}

	return nil
}

// Save writes rec to path, replacing any existing file.
func (fo Format) Save(path string, rec Record) error {
	const errCtx = "saving record"

	err := os.WriteFile( //nolint:gosec // path chosen by the user
		path, []byte(fo.Render(rec)), 0o666,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, digester.Classify(err))
	}

	return nil
}

// Read returns the content of the record file at path.
func Read(path string) (string, error) {
	const errCtx = "reading record"

	content, err := os.ReadFile(path) //nolint:gosec // path chosen by the user
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, digester.Classify(err))
	}

	return string(content), nil
}

// HexTokens returns, in file order, the leading hex token of every
// line that looks like a data line.
func HexTokens(content string) []string {
	var tokens []string

	for _, line := range lines(content) {
		if tok, ok := hexToken(line); ok {
			tokens = append(tokens, tok)
		}
	}

	return tokens
}

// ExtractDigest returns the hex token of the first data line.
func ExtractDigest(content string) (string, error) {
	rec, err := Parse(content)
	if err != nil {
		return "", err
	}

	return rec.Digest, nil
}

// Parse returns the digest and filename of the first data line.
// The algorithm is left empty; see package detector.
func Parse(content string) (Record, error) {
	const errCtx = "parsing record"

	if content == "" {
		return Record{}, fmt.Errorf("%s: %w: empty", errCtx, ErrMalformed)
	}

	for _, line := range lines(content) {
		tok, ok := hexToken(line)
		if !ok {
			continue
		}

		rest := strings.TrimSpace(strings.TrimSpace(line)[len(tok):])

		return Record{Digest: tok, Filename: rest}, nil
	}

	return Record{}, fmt.Errorf(
		"%s: %w: no hex digest line", errCtx, ErrMalformed,
	)
}

func lines(content string) []string {
	return strings.Split(lineBreaks.Replace(content), "\n")
}

// hexToken returns the leading hex token of line when it is followed
// by at least one whitespace rune after trimming.
func hexToken(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)

	tok := hexPrefix.FindString(trimmed)
	if tok == "" {
		return "", false
	}

	next, _ := utf8.DecodeRuneInString(trimmed[len(tok):])
	if !unicode.IsSpace(next) {
		return "", false
	}

	return tok, true
}

func vars(rec Record) map[string]interface{} {
	return map[string]interface{}{
		"algorithm": rec.Algorithm.String(),
		"ALGORITHM": rec.Algorithm.Upper(),
		"name":      rec.Filename,
		"digest":    rec.Digest,
	}
}

// Package record reads and writes digest records: small text files holding an
// informational comment line and a single "<hex-digest>  <filename>" data
// line. Format renders records and suggests file names from fasttemplate
// templates with single-brace {var} placeholders. ExtractDigest and HexTokens
// locate data lines the same way for comparison and detection.
package record

// Package detector infers which algorithm produced a digest record from the
// length of its hex digest. The inference is a heuristic driven by a
// length-to-algorithm Table, not a cryptographic identification: two
// algorithms with the same digest size cannot be told apart, so the table is
// configuration and can be replaced.
//
// Lines are scanned in order and the first line whose hex token length is in
// the table wins. A stray hex-looking line above the real data line therefore
// takes precedence over it.
package detector

// Package digester computes file digests for any supported algorithm. Files
// are streamed through the hash in fixed 4096-byte chunks and the result is
// returned as lowercase hex. Failures are classified as ErrNotFound, ErrIO or
// algorithm.ErrUnsupported.
package digester

// Package algorithm enumerates the digest algorithms hashcheck can compute.
// The core set is md5, sha1, sha224, sha256, sha384 and sha512; the SHA-3
// family is available for explicit selection only. Parse normalizes user
// input and New builds a streaming hash.Hash for an algorithm.
package algorithm

// Package config loads hashcheck settings from an optional YAML file: the
// default algorithm, the record header and file name templates, and the
// length-to-algorithm table used for detection. Every key is optional and
// falls back to the built-in default.
package config

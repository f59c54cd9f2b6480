// Package checksum ties the digest engine, record format and algorithm
// detector into the operations a user drives: generate a record for a file,
// detect the algorithm of a saved record, and compare a file against a
// record.
//
// Generate and Compare are plain functions; detection is detector.DetectFile.
// Controller wraps them with an explicit State and two collaborator interfaces, Picker for file
// selection and Notifier for user-facing messages, so any front end can
// drive the same flow without owning the logic.
package checksum

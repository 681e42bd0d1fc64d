// Package todo holds the in-memory task list and its on-disk encoding.
//
// The task file is plain text with one record per line:
//
//	1|Buy milk|true
//	2|Walk dog|false
//
// Fields are the numeric id, the description and the literal "true" or
// "false" for the completion flag. There is no header, footer or checksum.
//
// # Parsing
//
// Decoding replaces the whole list. A line is kept only when it splits into
// exactly three fields and the first one is a non-negative integer; anything
// else is skipped without an error. The number of skipped lines is reported
// in ParseResult so callers can log it.
//
// # Ids
//
// Ids are assigned by the store and never reused. After decoding, the next
// id is one past the largest id seen, or 1 for an empty file.
package todo

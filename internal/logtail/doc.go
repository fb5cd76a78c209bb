// Package logtail reads CI logs from local files and streams.
//
// # Overview
//
//  1. ReadFile and ReadAll: load a whole log, capped at MaxBytes
//  2. Read and Tail: keep only the last N lines of arbitrarily large input
//  3. Glob: find logs in an unpacked run archive with "**" patterns
//
// # Reading Log Files
//
// Tail uses a ring buffer of maxLines entries. It scans the input once,
// uses O(maxLines) memory and returns lines in their original order.
// Individual lines longer than 1 MiB make the scan fail.
//
//	lines, err := logtail.Read("job.log", 400)
//
// # Error Handling
//
// A missing file is an error wrapping os.ErrNotExist. Oversized whole-log
// reads wrap ErrTooLarge.
package logtail

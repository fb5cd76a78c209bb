// Package logparse turns raw CI job-log text into structures a viewer can
// render.
//
// # Overview
//
// A GitHub Actions job log is plain text with two kinds of embedded markup:
// SGR escape sequences ("\x1b[31m") that color and style the output, and
// command markers at the start of a line ("##[group]Run tests",
// "##[error]Process completed with exit code 1"). The package offers three
// independent single-pass parsers over the same text:
//
//  1. ParseStyles: escape-sequence interpreter producing StyledRuns
//  2. ParseLines: line tokenizer producing typed Nodes with group links
//  3. ExtractSections: Setup/Step line ranges for folding and outlines
//
// Parse bundles all three into a Document, and ParseAll parses several
// documents in parallel.
//
// # Styles
//
// Supported SGR parameters are reset (0), bold/italic/underline on (1, 3, 4)
// and off (22, 23, 24), the 30-37/90 and 40-47/100 palette colors, their
// bright variants 91-97 and 101-107, 8-bit (38;5;n / 48;5;n) and 24-bit
// (38;2;r;g;b / 48;2;r;g;b) colors, and 39/49 to unset a color. Other values
// are ignored. A sequence containing anything but digits and ';' before its
// final 'm' is not interpreted and stays in the output verbatim.
//
// # Lines and groups
//
// Markers are recognized only near the start of a line's content, after an
// optional 28-byte timestamp: at most four bytes may precede the opening
// bracket. Node offsets are byte offsets into Line.Raw.
// Group membership is recorded as GroupRef indices rather than pointers, so
// a Structure can be copied and serialized freely.
//
// # Error Handling
//
// Nothing in this package returns an error for bad input. Logs come from a
// remote service and may be truncated or contain arbitrary bytes; every
// function is total and keeps all text it does not understand.
//
// # Concurrency
//
// All functions are pure. Documents are immutable after Parse and may be
// shared between goroutines.
package logparse

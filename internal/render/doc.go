// Package render draws parsed log documents with lipgloss.
//
// It is shared by the print command and the interactive viewer. View
// reduces a document line to its visible parts, Painter styles those parts,
// and Print, Sections and Dump write whole documents to a writer.
//
// Log colors are mapped through a Palette so the viewer can tint the eight
// named colors to match its theme while explicit RGB colors pass through.
package render

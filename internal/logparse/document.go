package logparse

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Source is a raw log body identified by a caller-chosen stable ID.
type Source struct {
	ID   string
	Name string
	Text string
}

// Document bundles the three parse outputs for one log body.
type Document struct {
	ID        string
	Name      string
	Size      int
	Runs      []StyledRun
	RunLines  [][]StyledRun
	Structure Structure
	Sections  []Section
}

// LineCount is the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.Structure.Lines)
}

// Steps returns the non-setup sections.
func (d *Document) Steps() []Section {
	if len(d.Sections) <= 1 {
		return nil
	}
	return d.Sections[1:]
}

// Parse runs all three passes over src.Text.
func Parse(src Source) *Document {
	runs := ParseStyles(src.Text)
	structure := ParseLines(src.Text)

	// A final line made only of escape sequences has no styled text, so
	// pad to keep RunLines index-aligned with Structure.Lines.
	runLines := SplitRunsByLine(runs)
	for len(runLines) < len(structure.Lines) {
		runLines = append(runLines, nil)
	}

	return &Document{
		ID:        src.ID,
		Name:      src.Name,
		Size:      len(src.Text),
		Runs:      runs,
		RunLines:  runLines,
		Structure: structure,
		Sections:  ExtractSections(src.Text),
	}
}

// ParseAll parses independent documents concurrently. Results keep the
// order of srcs. Parsing itself cannot fail; the only error is ctx being
// done before every document was started.
func ParseAll(ctx context.Context, srcs []Source) ([]*Document, error) {
	docs := make([]*Document, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs[i] = Parse(src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

package render

import (
	"strings"

	"github.com/five82/runlog/internal/logparse"
)

// LineView is a document line split into the parts a viewer draws
// separately. Runs hold only the visible content: the timestamp prefix
// and any command markers are cut away.
type LineView struct {
	Index     int
	Timestamp string
	Kind      logparse.NodeKind // first command on the line, or NodePlain
	Icon      string
	Runs      []logparse.StyledRun
}

// Text is the visible content without styling.
func (v LineView) Text() string {
	if len(v.Runs) == 1 {
		return v.Runs[0].Text
	}
	var b strings.Builder
	for _, r := range v.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Hidden reports whether the line carries nothing worth drawing. Group
// terminators are implied by the fold structure.
func (v LineView) Hidden() bool {
	return v.Kind == logparse.NodeEndGroup
}

// View builds the LineView for line i of doc.
func View(doc *logparse.Document, i int) LineView {
	line := doc.Structure.Lines[i]
	v := LineView{Index: i}
	if ts, _, ok := logparse.SplitTimestamp(line.Raw); ok {
		v.Timestamp = ts.Raw
	}

	contentStart := 0
	if v.Timestamp != "" {
		contentStart = logparse.TimestampWidth
	}
	for _, n := range line.Nodes {
		switch n.Kind {
		case logparse.NodePlain:
			continue
		case logparse.NodeIcon:
			if v.Icon == "" {
				v.Icon = n.Text(line.Raw)
			}
			contentStart = n.End
			if n.End < len(line.Raw) {
				// skip the separating space
				contentStart = n.End + 1
			}
		default:
			if v.Kind == logparse.NodePlain {
				v.Kind = n.Kind
			}
			contentStart = n.Start
		}
	}
	if contentStart > len(line.Raw) {
		contentStart = len(line.Raw)
	}

	var runs []logparse.StyledRun
	if i < len(doc.RunLines) {
		runs = doc.RunLines[i]
	}
	v.Runs = dropPrefix(runs, len(logparse.PlainText(line.Raw[:contentStart])))
	return v
}

// dropPrefix removes the first n bytes of text from runs.
func dropPrefix(runs []logparse.StyledRun, n int) []logparse.StyledRun {
	if n <= 0 {
		return runs
	}
	for i, r := range runs {
		if n < len(r.Text) {
			out := make([]logparse.StyledRun, 0, len(runs)-i)
			out = append(out, logparse.StyledRun{Text: r.Text[n:], Style: r.Style})
			return append(out, runs[i+1:]...)
		}
		n -= len(r.Text)
	}
	return nil
}

var iconGlyphs = map[string]string{
	"check":   "✓",
	"success": "✓",
	"x":       "✗",
	"error":   "✗",
	"failure": "✗",
	"warning": "!",
	"info":    "i",
	"skip":    "⊘",
}

// IconGlyph maps an icon name to a single display glyph.
func IconGlyph(name string) string {
	if g, ok := iconGlyphs[strings.ToLower(name)]; ok {
		return g
	}
	return "•"
}

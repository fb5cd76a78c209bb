package render

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"

	"github.com/five82/runlog/internal/logparse"
)

// Sections writes a table of doc's sections.
func Sections(w io.Writer, doc *logparse.Document) error {
	fmt.Fprintf(w, "%s  %s lines  %s  %d groups\n",
		doc.Name,
		humanize.Comma(int64(doc.LineCount())),
		humanize.IBytes(uint64(doc.Size)),
		doc.Structure.GroupCount)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tLINES\tNAME")
	for i, s := range doc.Sections {
		span := "-"
		if !s.Empty() {
			span = fmt.Sprintf("%d-%d", s.Start+1, s.End+1)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, s.Kind, span, s.Title())
	}
	return tw.Flush()
}

// DumpFormat is the encoding used by Dump.
type DumpFormat string

const (
	FormatJSON DumpFormat = "json"
	FormatYAML DumpFormat = "yaml"
)

type dump struct {
	ID         string             `json:"id" yaml:"id"`
	Name       string             `json:"name" yaml:"name"`
	Size       int                `json:"size" yaml:"size"`
	GroupCount int                `json:"groupCount" yaml:"groupCount"`
	Sections   []logparse.Section `json:"sections" yaml:"sections"`
	Lines      []logparse.Line    `json:"lines" yaml:"lines"`
}

// Dump writes the parsed structure of docs in the given format.
func Dump(w io.Writer, docs []*logparse.Document, format DumpFormat) error {
	out := make([]dump, 0, len(docs))
	for _, d := range docs {
		out = append(out, dump{
			ID:         d.ID,
			Name:       d.Name,
			Size:       d.Size,
			GroupCount: d.Structure.GroupCount,
			Sections:   d.Sections,
			Lines:      d.Structure.Lines,
		})
	}

	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case FormatYAML:
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

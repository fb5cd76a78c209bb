package render

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/runlog/internal/logparse"
)

const ts = "2024-01-02T03:04:05.1234567Z "

const sampleLog = ts + "Current runner version: '2.311.0'\n" +
	ts + "##[group]Run actions/checkout@v4\n" +
	ts + "with: repository\n" +
	ts + "##[endgroup]\n" +
	ts + "##[group]Run go test ./...\n" +
	ts + "\x1b[32mok\x1b[0m  \tpkg\t0.01s\n" +
	ts + "##[error]Process completed with exit code 1.\n" +
	ts + "##[endgroup]\n"

func plainPainter() *Painter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	return NewPainter(r, ANSIPalette(), DefaultKindStyles(r))
}

func parse(text string) *logparse.Document {
	return logparse.Parse(logparse.Source{ID: "job", Name: "job.log", Text: text})
}

func TestView(t *testing.T) {
	tests := []struct {
		name string
		line string
		ts   string
		kind logparse.NodeKind
		icon string
		text string
	}{
		{"plain", "hello world", "", logparse.NodePlain, "", "hello world"},
		{"timestamped plain", ts + "hello", ts[:27], logparse.NodePlain, "", "hello"},
		{"group", ts + "##[group]Run build", ts[:27], logparse.NodeGroup, "", "Run build"},
		{"error", "##[error]boom", "", logparse.NodeError, "", "boom"},
		{"endgroup", ts + "##[endgroup]", ts[:27], logparse.NodeEndGroup, "", ""},
		{"icon", "##[icon]check Build done", "", logparse.NodePlain, "check", "Build done"},
		{"icon then warning", "##[icon]x ##[warning]careful", "", logparse.NodeWarning, "x", "careful"},
		{"styled", "\x1b[31mred\x1b[0m text", "", logparse.NodePlain, "", "red text"},
		{"styled after marker", "##[command]\x1b[1mgo\x1b[0m test", "", logparse.NodeCommand, "", "go test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := View(parse(tt.line), 0)
			assert.Equal(t, tt.ts, v.Timestamp)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.icon, v.Icon)
			assert.Equal(t, tt.text, v.Text())
		})
	}
}

func TestView_KeepsStyles(t *testing.T) {
	v := View(parse(ts+"\x1b[32mok\x1b[0m done"), 0)
	require.Len(t, v.Runs, 2)
	assert.Equal(t, "ok", v.Runs[0].Text)
	assert.Equal(t, logparse.Named(logparse.Green, false), v.Runs[0].Style.Foreground)
	assert.Equal(t, " done", v.Runs[1].Text)
}

func TestView_Hidden(t *testing.T) {
	doc := parse(sampleLog)
	assert.False(t, View(doc, 1).Hidden())
	assert.True(t, View(doc, 3).Hidden())
}

func TestPainter_Line(t *testing.T) {
	p := plainPainter()
	tests := []struct {
		name string
		line string
		opts LineOptions
		want string
	}{
		{"plain", "hello", LineOptions{}, "hello"},
		{"timestamps hidden", ts + "hello", LineOptions{}, "hello"},
		{"timestamps shown", ts + "hello", LineOptions{Timestamps: true}, ts + "hello"},
		{"group expanded", "##[group]Build", LineOptions{}, "▾ Build"},
		{"group folded", "##[group]Build", LineOptions{Folded: true}, "▸ Build"},
		{"error label", "##[error]boom", LineOptions{}, "Error: boom"},
		{"warning label", "##[warning]old", LineOptions{}, "Warning: old"},
		{"notice label", "##[notice]fyi", LineOptions{}, "Notice: fyi"},
		{"command", "##[command]git status", LineOptions{}, "git status"},
		{"icon", "##[icon]check Build done", LineOptions{}, "✓ Build done"},
		{"unknown icon", "##[icon]star shiny", LineOptions{}, "• shiny"},
		{"line number", "x", LineOptions{LineNumber: 7, Gutter: 3}, "  7 x"},
		{"colors dropped", "\x1b[31mred\x1b[0m text", LineOptions{}, "red text"},
		{"stray escapes stripped", "\x1b[2Kdone", LineOptions{}, "done"},
		{"tabs kept", "\x1b[1ma\tb\x1b[0m", LineOptions{}, "a\tb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(tt.line)
			assert.Equal(t, tt.want, p.Line(View(doc, 0), tt.opts))
		})
	}
}

func TestPalette_Color(t *testing.T) {
	p := ANSIPalette()
	assert.Equal(t, lipgloss.ANSIColor(1), p.Color(logparse.Named(logparse.Red, false)))
	assert.Equal(t, lipgloss.ANSIColor(9), p.Color(logparse.Named(logparse.Red, true)))
	assert.Equal(t, lipgloss.ANSIColor(8), p.Color(logparse.Named(logparse.Gray, false)))
	assert.Equal(t, lipgloss.Color("#0a0b0c"), p.Color(logparse.RGB(10, 11, 12)))
	assert.Equal(t, lipgloss.NoColor{}, p.Color(logparse.ColorRef{}))

	hex := HexPalette([16]string{
		"#000000", "#100000", "#200000", "#300000", "#400000", "#500000", "#600000", "#700000",
		"#800000", "#900000", "#a00000", "#b00000", "#c00000", "#d00000", "#e00000", "#f00000",
	})
	assert.Equal(t, lipgloss.Color("#100000"), hex.Color(logparse.Named(logparse.Red, false)))
	assert.Equal(t, lipgloss.Color("#900000"), hex.Color(logparse.Named(logparse.Red, true)))
	assert.Equal(t, lipgloss.Color("#800000"), hex.Color(logparse.Named(logparse.Gray, false)))
}

func TestIconGlyph(t *testing.T) {
	assert.Equal(t, "✓", IconGlyph("check"))
	assert.Equal(t, "✗", IconGlyph("X"))
	assert.Equal(t, "!", IconGlyph("warning"))
	assert.Equal(t, "•", IconGlyph("rocket"))
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorAuto, "auto": ColorAuto, "Always": ColorAlways, " never ": ColorNever} {
		got, err := ParseColorMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestNewRenderer_Never(t *testing.T) {
	r := NewRenderer(io.Discard, ColorNever)
	assert.Equal(t, termenv.Ascii, r.ColorProfile())
	assert.Equal(t, "x", r.NewStyle().Bold(true).Render("x"))
}

func TestPrint(t *testing.T) {
	doc := parse(sampleLog)
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, plainPainter(), doc, PrintOptions{}))
	assert.Equal(t, strings.Join([]string{
		"Current runner version: '2.311.0'",
		"▾ Run actions/checkout@v4",
		"with: repository",
		"▾ Run go test ./...",
		"ok  \tpkg\t0.01s",
		"Error: Process completed with exit code 1.",
	}, "\n")+"\n", buf.String())
}

func TestPrint_Step(t *testing.T) {
	doc := parse(sampleLog)
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, plainPainter(), doc, PrintOptions{Step: 2, LineNumbers: true}))
	assert.Equal(t, "5 ▾ Run go test ./...\n6 ok  \tpkg\t0.01s\n7 Error: Process completed with exit code 1.\n", buf.String())

	err := Print(&buf, plainPainter(), doc, PrintOptions{Step: 3})
	assert.ErrorContains(t, err, "step 3 out of range")
}

func TestPrint_StepCountsGroupNodes(t *testing.T) {
	doc := parse("##[group]one\na\n##[endgroup]\necho '##[group]fake'\n##[group]two\nb\n##[endgroup]\n")
	require.Len(t, doc.Steps(), 3)

	start, end, ok := StepRange(doc, 2)
	require.True(t, ok)
	assert.Equal(t, 4, start)
	assert.Equal(t, 6, end)

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, plainPainter(), doc, PrintOptions{Step: 2}))
	assert.Equal(t, "▾ two\nb\n", buf.String())

	err := Print(&buf, plainPainter(), doc, PrintOptions{Step: 3})
	assert.ErrorContains(t, err, "step 3 out of range (document has 2 steps)")
}

func TestStepRange_EndsAtNextStep(t *testing.T) {
	doc := parse("setup\n##[group]one\na\n##[endgroup]\n##[GROUP]loud\nb\n")
	start, end, ok := StepRange(doc, 1)
	require.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, 3, end)

	start, end, ok = StepRange(doc, 2)
	require.True(t, ok)
	assert.Equal(t, 4, start)
	assert.Equal(t, 5, end)

	_, _, ok = StepRange(doc, 0)
	assert.False(t, ok)
}

func TestPrint_Tail(t *testing.T) {
	doc := parse(sampleLog)
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, plainPainter(), doc, PrintOptions{Tail: 2, Timestamps: true}))
	assert.Equal(t, ts+"ok  \tpkg\t0.01s\n"+ts+"Error: Process completed with exit code 1.\n", buf.String())
}

func TestPrint_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, plainPainter(), parse(""), PrintOptions{}))
	assert.Empty(t, buf.String())
}

func TestSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Sections(&buf, parse(sampleLog)))
	out := buf.String()
	assert.Contains(t, out, "job.log  8 lines")
	assert.Contains(t, out, "2 groups")
	assert.Contains(t, out, "Run actions/checkout@v4")
	assert.Contains(t, out, "Run go test ./...")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 5)
}

func TestDump_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, []*logparse.Document{parse(sampleLog)}, FormatJSON))

	var got []struct {
		ID         string `json:"id"`
		GroupCount int    `json:"groupCount"`
		Sections   []struct {
			Kind string `json:"kind"`
			Name string `json:"name"`
		} `json:"sections"`
		Lines []struct {
			Nodes []struct {
				Kind string `json:"kind"`
			} `json:"nodes"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "job", got[0].ID)
	assert.Equal(t, 2, got[0].GroupCount)
	require.Len(t, got[0].Sections, 3)
	assert.Equal(t, "setup", got[0].Sections[0].Kind)
	assert.Equal(t, "step", got[0].Sections[1].Kind)
	assert.Equal(t, "Run go test ./...", got[0].Sections[2].Name)
	require.Len(t, got[0].Lines, 8)
	assert.Equal(t, "error", got[0].Lines[6].Nodes[1].Kind)
}

func TestDump_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, []*logparse.Document{parse("##[group]a\n##[endgroup]")}, FormatYAML))
	assert.Contains(t, buf.String(), "id: job")
	assert.Contains(t, buf.String(), "groupCount: 1")
}

func TestDump_UnknownFormat(t *testing.T) {
	err := Dump(io.Discard, nil, DumpFormat("xml"))
	assert.ErrorContains(t, err, "unknown format")
}

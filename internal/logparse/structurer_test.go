package logparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ts = "2024-01-02T03:04:05.1234567Z "

func TestParseLines_GroupBackReference(t *testing.T) {
	got := ParseLines("##[group]Build\nstep1\n##[endgroup]\n")
	require.Len(t, got.Lines, 3)

	group := got.Lines[0].Nodes
	require.Len(t, group, 1)
	assert.Equal(t, NodeGroup, group[0].Kind)
	assert.True(t, group[0].IsGroup)
	assert.Nil(t, group[0].Group)
	assert.Equal(t, "Build", group[0].Text(got.Lines[0].Raw))

	inner := got.Lines[1].Nodes
	require.Len(t, inner, 1)
	assert.Equal(t, NodePlain, inner[0].Kind)
	assert.Equal(t, &GroupRef{Line: 0, Node: 0}, inner[0].Group)

	end := got.Lines[2].Nodes
	require.Len(t, end, 1)
	assert.Equal(t, NodeEndGroup, end[0].Kind)
	assert.Equal(t, &GroupRef{Line: 0, Node: 0}, end[0].Group)
	assert.Equal(t, 0, end[0].GroupCount)

	assert.Equal(t, 1, got.GroupCount)
}

func TestParseLines_CommandKinds(t *testing.T) {
	tests := []struct {
		line  string
		kind  NodeKind
		start int
		text  string
	}{
		{"##[command]git status", NodeCommand, 11, "git status"},
		{"[command]/usr/bin/git version", NodeCommand, 9, "/usr/bin/git version"},
		{"##[debug]Evaluating: success()", NodeDebug, 9, "Evaluating: success()"},
		{"##[error]Process completed with exit code 1.", NodeError, 9, "Process completed with exit code 1."},
		{"##[info]hello", NodeInfo, 8, "hello"},
		{"##[section]Starting: Build", NodeSection, 11, "Starting: Build"},
		{"##[verbose]details", NodeVerbose, 11, "details"},
		{"##[warning]deprecated", NodeWarning, 11, "deprecated"},
		{"##[notice]fyi", NodeNotice, 10, "fyi"},
		{"##[WARNING]loud", NodeWarning, 11, "loud"},
		{"##[Error]", NodeError, 9, ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ParseLines(tt.line)
			require.Len(t, got.Lines, 1)
			line := got.Lines[0]
			require.Len(t, line.Nodes, 1)
			n := line.Nodes[0]
			assert.Equal(t, tt.kind, n.Kind)
			assert.Equal(t, tt.start, n.Start)
			assert.Equal(t, len(tt.line), n.End)
			assert.Equal(t, tt.text, line.Content())
		})
	}
}

func TestParseLines_NotCommands(t *testing.T) {
	lines := []string{
		"plain output",
		"##[foo]bar",
		"##[endgroupX]y",
		"##[averyverylongkeyword]z",
		"echo ##[error]not at start",
		"12345[error]too far in",
		"   ##[error]five bytes before the bracket",
		"##[error",
		"[]",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			got := ParseLines(line)
			require.Len(t, got.Lines, 1)
			require.Len(t, got.Lines[0].Nodes, 1)
			n := got.Lines[0].Nodes[0]
			assert.Equal(t, NodePlain, n.Kind)
			assert.Equal(t, 0, n.Start)
			assert.Equal(t, len(line), n.End)
			assert.Equal(t, line, got.Lines[0].Content())
		})
	}
}

func TestParseLines_TimestampPrefix(t *testing.T) {
	got := ParseLines(ts + "##[group]Run build\n" + ts + "compiling\n" + ts + "##[endgroup]")
	require.Len(t, got.Lines, 3)

	first := got.Lines[0]
	require.Len(t, first.Nodes, 2)
	assert.Equal(t, NodePlain, first.Nodes[0].Kind)
	assert.Equal(t, ts, first.Nodes[0].Text(first.Raw))
	assert.Equal(t, NodeGroup, first.Nodes[1].Kind)
	assert.Equal(t, "Run build", first.Nodes[1].Text(first.Raw))
	assert.True(t, first.Nodes[1].IsGroup)

	middle := got.Lines[1]
	require.Len(t, middle.Nodes, 1)
	assert.Equal(t, &GroupRef{Line: 0, Node: 1}, middle.Nodes[0].Group)

	last := got.Lines[2]
	require.Len(t, last.Nodes, 2)
	assert.Equal(t, NodeEndGroup, last.Nodes[1].Kind)
	assert.Equal(t, &GroupRef{Line: 0, Node: 1}, last.Nodes[1].Group)
}

func TestParseLines_MarkerNearLineStart(t *testing.T) {
	tests := []struct {
		line   string
		prefix string
		kind   NodeKind
		text   string
	}{
		{"  ##[error]boom", "  ", NodeError, "boom"},
		{"    [warning]indented", "    ", NodeWarning, "indented"},
		{"#[error]one hash", "#", NodeError, "one hash"},
		{"> ##[group]quoted", "> ", NodeGroup, "quoted"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ParseLines(tt.line)
			nodes := got.Lines[0].Nodes
			require.Len(t, nodes, 2)
			assert.Equal(t, NodePlain, nodes[0].Kind)
			assert.Equal(t, tt.prefix, nodes[0].Text(tt.line))
			assert.Equal(t, tt.kind, nodes[1].Kind)
			assert.Equal(t, tt.text, nodes[1].Text(tt.line))
		})
	}
}

func TestParseLines_MarkerNearContentStartAfterTimestamp(t *testing.T) {
	raw := ts + "  ##[error]boom"
	nodes := ParseLines(raw).Lines[0].Nodes
	require.Len(t, nodes, 2)
	assert.Equal(t, NodePlain, nodes[0].Kind)
	assert.Equal(t, ts+"  ", nodes[0].Text(raw))
	assert.Equal(t, NodeError, nodes[1].Kind)
	assert.Equal(t, "boom", nodes[1].Text(raw))
}

func TestParseLines_InvalidTimestampIsPlainText(t *testing.T) {
	got := ParseLines("2024-13-99T03:04:05.1234567Z ##[error]x")
	require.Len(t, got.Lines[0].Nodes, 1)
	assert.Equal(t, NodePlain, got.Lines[0].Nodes[0].Kind)
}

func TestParseLines_Icon(t *testing.T) {
	raw := "##[icon]check Build done"
	got := ParseLines(raw)
	nodes := got.Lines[0].Nodes
	require.Len(t, nodes, 2)
	assert.Equal(t, NodeIcon, nodes[0].Kind)
	assert.Equal(t, "check", nodes[0].Text(raw))
	assert.Equal(t, NodePlain, nodes[1].Kind)
	assert.Equal(t, "Build done", nodes[1].Text(raw))
}

func TestParseLines_IconThenCommand(t *testing.T) {
	raw := "##[icon]x ##[error]bad"
	nodes := ParseLines(raw).Lines[0].Nodes
	require.Len(t, nodes, 2)
	assert.Equal(t, NodeIcon, nodes[0].Kind)
	assert.Equal(t, "x", nodes[0].Text(raw))
	assert.Equal(t, NodeError, nodes[1].Kind)
	assert.Equal(t, "bad", nodes[1].Text(raw))
}

func TestParseLines_IconWithoutSpace(t *testing.T) {
	raw := "##[icon]star"
	nodes := ParseLines(raw).Lines[0].Nodes
	require.Len(t, nodes, 1)
	assert.Equal(t, NodeIcon, nodes[0].Kind)
	assert.Equal(t, "star", nodes[0].Text(raw))
}

func TestParseLines_UnterminatedGroup(t *testing.T) {
	got := ParseLines("##[group]A\nx")
	require.Len(t, got.Lines, 2)
	assert.False(t, got.Lines[0].Nodes[0].IsGroup)
	assert.Equal(t, &GroupRef{Line: 0, Node: 0}, got.Lines[1].Nodes[0].Group)
	assert.Equal(t, 0, got.GroupCount)
}

func TestParseLines_EndGroupWithoutGroup(t *testing.T) {
	got := ParseLines("##[endgroup]")
	n := got.Lines[0].Nodes[0]
	assert.Equal(t, NodeEndGroup, n.Kind)
	assert.Nil(t, n.Group)
	assert.Equal(t, 0, got.GroupCount)
}

func TestParseLines_NestedGroups(t *testing.T) {
	got := ParseLines("##[group]outer\n##[group]inner\nx\n##[endgroup]\ny\n##[endgroup]")
	require.Len(t, got.Lines, 6)
	outer := &GroupRef{Line: 0, Node: 0}
	inner := &GroupRef{Line: 1, Node: 0}

	assert.Nil(t, got.Lines[0].Nodes[0].Group)
	assert.Equal(t, outer, got.Lines[1].Nodes[0].Group)
	assert.Equal(t, inner, got.Lines[2].Nodes[0].Group)
	assert.Equal(t, inner, got.Lines[3].Nodes[0].Group)
	assert.Equal(t, outer, got.Lines[4].Nodes[0].Group)
	assert.Equal(t, 1, got.Lines[4].Nodes[0].GroupCount)
	assert.Equal(t, outer, got.Lines[5].Nodes[0].Group)

	assert.True(t, got.Lines[0].Nodes[0].IsGroup)
	assert.True(t, got.Lines[1].Nodes[0].IsGroup)
	assert.Equal(t, 2, got.GroupCount)
}

func TestParseLines_SequentialGroupsAndSteps(t *testing.T) {
	got := ParseLines("setup\n##[group]a\n##[endgroup]\n##[group]b\nwork\n##[endgroup]")
	assert.Equal(t, 2, got.GroupCount)
	assert.Equal(t, 0, got.Lines[1].Nodes[0].GroupCount)
	assert.Equal(t, 1, got.Lines[3].Nodes[0].GroupCount)

	assert.Equal(t, []GroupRef{{Line: 1, Node: 0}, {Line: 3, Node: 0}}, got.Groups())

	line, ok := got.StepLine(2)
	assert.True(t, ok)
	assert.Equal(t, 3, line)
	_, ok = got.StepLine(3)
	assert.False(t, ok)
	_, ok = got.StepLine(0)
	assert.False(t, ok)

	n, ok := got.Node(GroupRef{Line: 3, Node: 0})
	assert.True(t, ok)
	assert.Equal(t, NodeGroup, n.Kind)
	_, ok = got.Node(GroupRef{Line: 9, Node: 0})
	assert.False(t, ok)
}

func TestParseLines_IndexIsDocumentOrder(t *testing.T) {
	got := ParseLines(ts + "##[group]a\n" + ts + "x\n##[icon]i y\n")
	want := 0
	for _, line := range got.Lines {
		for _, n := range line.Nodes {
			assert.Equal(t, want, n.Index)
			assert.Equal(t, line.Index, n.Line)
			want++
		}
	}
	assert.Equal(t, 5, want)
}

func TestParseLines_LineTerminators(t *testing.T) {
	got := ParseLines("a\r\nb\rc\n\nd")
	require.Len(t, got.Lines, 5)
	var raws []string
	for _, l := range got.Lines {
		raws = append(raws, l.Raw)
	}
	assert.Equal(t, []string{"a", "b", "c", "", "d"}, raws)

	empty := got.Lines[3].Nodes
	require.Len(t, empty, 1)
	assert.Equal(t, NodePlain, empty[0].Kind)
	assert.Equal(t, 0, empty[0].End)
}

func TestParseLines_Empty(t *testing.T) {
	got := ParseLines("")
	assert.Empty(t, got.Lines)
	assert.Equal(t, 0, got.GroupCount)
}

func TestParseLines_Idempotent(t *testing.T) {
	in := "##[group]a\n" + ts + "##[warning]w\n##[endgroup]\n##[group]b"
	assert.Equal(t, ParseLines(in), ParseLines(in))
}

func TestLine_Command(t *testing.T) {
	got := ParseLines(ts + "##[error]boom\nplain")
	n, ok := got.Lines[0].Command()
	assert.True(t, ok)
	assert.Equal(t, NodeError, n.Kind)
	_, ok = got.Lines[1].Command()
	assert.False(t, ok)
}

func TestNodeKind_String(t *testing.T) {
	assert.Equal(t, "endgroup", NodeEndGroup.String())
	assert.Equal(t, "plain", NodePlain.String())
	assert.Equal(t, "unknown", NodeKind(200).String())
	for name, kind := range commandKinds {
		assert.Equal(t, name, kind.String())
	}
}

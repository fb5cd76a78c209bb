package logparse

import "strings"

// NodeKind classifies a node produced by ParseLines.
type NodeKind uint8

const (
	NodePlain NodeKind = iota
	NodeCommand
	NodeDebug
	NodeError
	NodeInfo
	NodeSection
	NodeVerbose
	NodeWarning
	NodeGroup
	NodeEndGroup
	NodeIcon
	NodeNotice
)

var nodeKindNames = [...]string{
	NodePlain:    "plain",
	NodeCommand:  "command",
	NodeDebug:    "debug",
	NodeError:    "error",
	NodeInfo:     "info",
	NodeSection:  "section",
	NodeVerbose:  "verbose",
	NodeWarning:  "warning",
	NodeGroup:    "group",
	NodeEndGroup: "endgroup",
	NodeIcon:     "icon",
	NodeNotice:   "notice",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// MarshalText lets encoders print kinds by name.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// commandKinds is the marker vocabulary. Keys are lowercase; every kind
// except NodePlain appears exactly once.
var commandKinds = map[string]NodeKind{
	"command":  NodeCommand,
	"debug":    NodeDebug,
	"error":    NodeError,
	"info":     NodeInfo,
	"section":  NodeSection,
	"verbose":  NodeVerbose,
	"warning":  NodeWarning,
	"group":    NodeGroup,
	"endgroup": NodeEndGroup,
	"icon":     NodeIcon,
	"notice":   NodeNotice,
}

// maxKeywordLen is the length of the longest marker keyword ("endgroup").
const maxKeywordLen = len("endgroup")

// GroupRef points at a Group node by position: Structure.Lines[Line].Nodes[Node].
type GroupRef struct {
	Line int `json:"line" yaml:"line"`
	Node int `json:"node" yaml:"node"`
}

// Node is one typed span of a line. Start and End are byte offsets into
// the owning Line's Raw text.
type Node struct {
	Kind       NodeKind  `json:"kind" yaml:"kind"`
	Index      int       `json:"index" yaml:"index"`
	Line       int       `json:"line" yaml:"line"`
	Start      int       `json:"start" yaml:"start"`
	End        int       `json:"end" yaml:"end"`
	Group      *GroupRef `json:"group,omitempty" yaml:"group,omitempty"`
	IsGroup    bool      `json:"isGroup,omitempty" yaml:"isGroup,omitempty"`
	GroupCount int       `json:"groupCount" yaml:"groupCount"`
}

// Line is one input line and its nodes.
type Line struct {
	Index int    `json:"index" yaml:"index"`
	Raw   string `json:"raw" yaml:"raw"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
}

// Text returns the node's span of raw.
func (n Node) Text(raw string) string {
	return raw[n.Start:n.End]
}

// Content returns the visible text of the line: every node span joined,
// so command markers are left out.
func (l Line) Content() string {
	if len(l.Nodes) == 1 {
		return l.Nodes[0].Text(l.Raw)
	}
	var b strings.Builder
	for _, n := range l.Nodes {
		b.WriteString(n.Text(l.Raw))
	}
	return b.String()
}

// Command returns the first non-plain node of the line, if any.
func (l Line) Command() (Node, bool) {
	for _, n := range l.Nodes {
		if n.Kind != NodePlain {
			return n, true
		}
	}
	return Node{}, false
}

// Structure is the output of ParseLines.
type Structure struct {
	Lines []Line `json:"lines" yaml:"lines"`
	// GroupCount is the number of groups closed by the end of the input.
	GroupCount int `json:"groupCount" yaml:"groupCount"`
}

// Node dereferences a group reference.
func (s Structure) Node(ref GroupRef) (Node, bool) {
	if ref.Line < 0 || ref.Line >= len(s.Lines) {
		return Node{}, false
	}
	nodes := s.Lines[ref.Line].Nodes
	if ref.Node < 0 || ref.Node >= len(nodes) {
		return Node{}, false
	}
	return nodes[ref.Node], true
}

// Groups lists every Group node in document order, closed or not.
func (s Structure) Groups() []GroupRef {
	var refs []GroupRef
	for li, line := range s.Lines {
		for ni, n := range line.Nodes {
			if n.Kind == NodeGroup {
				refs = append(refs, GroupRef{Line: li, Node: ni})
			}
		}
	}
	return refs
}

// StepLine resolves "step n" (1-based) to the line of the nth Group node.
func (s Structure) StepLine(n int) (int, bool) {
	groups := s.Groups()
	if n < 1 || n > len(groups) {
		return 0, false
	}
	return groups[n-1].Line, true
}

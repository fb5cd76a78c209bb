package logparse

import "strings"

const markerLead = "##"

// structScan carries group bookkeeping from one line to the next. Like
// styleScan it is a value; line returns a new state.
type structScan struct {
	nextIndex  int
	open       []GroupRef // open groups, innermost last; never appended in place
	groupCount int
}

// marker is a recognized "##[keyword]" or "[keyword]" token. start is where
// the token begins, end is just past its closing bracket.
type marker struct {
	kind       NodeKind
	start, end int
}

// markerTolerance is how far past the content start the opening bracket
// of a marker may sit, which leaves room for a leading "##".
const markerTolerance = 4

// matchMarker looks for a command marker whose '[' lies at most
// markerTolerance bytes after pos. A "##" directly before the bracket is
// part of the marker; other bytes before it are left for a plain node.
// Keywords are matched case-insensitively and a candidate longer than the
// longest keyword is abandoned without scanning for its closing bracket.
func matchMarker(raw string, pos int) (marker, bool) {
	limit := min(pos+markerTolerance, len(raw)-1)
	open := -1
	for j := pos; j <= limit; j++ {
		if raw[j] == '[' {
			open = j
			break
		}
	}
	if open < 0 {
		return marker{}, false
	}
	closing := -1
	for j := open + 1; j < len(raw); j++ {
		if raw[j] == ']' {
			closing = j
			break
		}
		if j-open > maxKeywordLen {
			return marker{}, false
		}
	}
	if closing < 0 {
		return marker{}, false
	}
	kind, ok := commandKinds[strings.ToLower(raw[open+1:closing])]
	if !ok {
		return marker{}, false
	}
	start := open
	if open-len(markerLead) >= pos && raw[open-len(markerLead):open] == markerLead {
		start = open - len(markerLead)
	}
	return marker{kind: kind, start: start, end: closing + 1}, true
}

// line tokenizes one raw line. The returned ref, when non-nil, is the group
// this line closed; the caller marks that node IsGroup.
func (s structScan) line(raw string, li int) (structScan, Line, *GroupRef) {
	out := Line{Index: li, Raw: raw}
	enclosing := s.innermost()

	var (
		opened *GroupRef
		closed *GroupRef
	)
	add := func(kind NodeKind, start, end int) {
		n := Node{
			Kind:       kind,
			Index:      s.nextIndex,
			Line:       li,
			Start:      start,
			End:        end,
			Group:      enclosing,
			GroupCount: s.groupCount,
		}
		switch kind {
		case NodeGroup:
			opened = &GroupRef{Line: li, Node: len(out.Nodes)}
		case NodeEndGroup:
			if enclosing != nil {
				ref := *enclosing
				closed = &ref
			}
		}
		s.nextIndex++
		out.Nodes = append(out.Nodes, n)
	}

	pos := 0
	if _, _, ok := SplitTimestamp(raw); ok {
		pos = TimestampWidth
	}
	plainFrom := 0
	for {
		m, ok := matchMarker(raw, pos)
		if !ok {
			break
		}
		if m.start > plainFrom {
			add(NodePlain, plainFrom, m.start)
		}
		if m.kind != NodeIcon {
			add(m.kind, m.end, len(raw))
			plainFrom = len(raw)
			break
		}
		space := strings.IndexByte(raw[m.end:], ' ')
		if space < 0 {
			add(NodeIcon, m.end, len(raw))
			plainFrom = len(raw)
			break
		}
		add(NodeIcon, m.end, m.end+space)
		pos = m.end + space + 1
		plainFrom = pos
	}
	if plainFrom < len(raw) || len(out.Nodes) == 0 {
		add(NodePlain, plainFrom, len(raw))
	}

	if closed != nil {
		s.open = s.open[:len(s.open)-1]
		s.groupCount++
	}
	if opened != nil {
		s.open = pushGroup(s.open, *opened)
	}
	return s, out, closed
}

func (s structScan) innermost() *GroupRef {
	if len(s.open) == 0 {
		return nil
	}
	ref := s.open[len(s.open)-1]
	return &ref
}

func pushGroup(open []GroupRef, ref GroupRef) []GroupRef {
	next := make([]GroupRef, len(open)+1)
	copy(next, open)
	next[len(open)] = ref
	return next
}

// ParseLines classifies every line of text by its leading command marker
// and links nodes to the group they appear in.
//
// A marker counts only near the start of a line's content, which begins
// after an optional timestamp prefix: its '[' may be preceded by at most
// four bytes, such as "##" or indentation. Those bytes become a plain node. The marker is dropped from the node spans and the rest of
// the line becomes one node of the marker's kind, except for icons, which
// span up to the next space and let scanning continue after it. Lines
// without a marker are a single plain node.
func ParseLines(text string) Structure {
	raws := splitLines(text)
	out := Structure{Lines: make([]Line, 0, len(raws))}

	var state structScan
	for li, raw := range raws {
		var (
			line   Line
			closed *GroupRef
		)
		state, line, closed = state.line(raw, li)
		out.Lines = append(out.Lines, line)
		if closed != nil {
			out.Lines[closed.Line].Nodes[closed.Node].IsGroup = true
		}
	}
	out.GroupCount = state.groupCount
	return out
}

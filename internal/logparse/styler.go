package logparse

import "strings"

const (
	esc        = '\x1b'
	csiOpen    = '['
	sgrFinal   = 'm'
	paramSplit = ';'
)

type scanMode uint8

const (
	scanText   scanMode = iota // copying plain text
	scanEscape                 // saw ESC, expecting '['
	scanParams                 // inside "ESC[", reading digits and ';'
)

// styleScan is the state of the escape-sequence interpreter between two
// input bytes. It is a plain value: step returns the successor state and
// never mutates its receiver.
//
// Pending text is src[runStart:i]. While a sequence is being read,
// seqStart marks its ESC byte; if the sequence is abandoned the bytes stay
// inside the pending text and are emitted literally.
type styleScan struct {
	mode     scanMode
	runStart int
	seqStart int
	style    Style
}

// step consumes src[i]. When a completed SGR sequence ends a stretch of
// text, that text is returned as a run styled with the style in effect
// before the sequence.
func (s styleScan) step(src string, i int) (styleScan, StyledRun, bool) {
	c := src[i]
	switch s.mode {
	case scanEscape:
		if c == csiOpen {
			s.mode = scanParams
			return s, StyledRun{}, false
		}
		s.mode = scanText
		return s.step(src, i)

	case scanParams:
		switch {
		case isDigit(c) || c == paramSplit:
			return s, StyledRun{}, false
		case c == sgrFinal:
			run := StyledRun{Text: src[s.runStart:s.seqStart], Style: s.style}
			s.style = applySGR(s.style, src[s.seqStart+2:i])
			s.runStart = i + 1
			s.mode = scanText
			return s, run, run.Text != ""
		default:
			s.mode = scanText
			return s.step(src, i)
		}
	}

	if c == esc {
		s.mode = scanEscape
		s.seqStart = i
	}
	return s, StyledRun{}, false
}

// finish flushes whatever text is still pending, including the bytes of an
// unterminated sequence, with the current style.
func (s styleScan) finish(src string) (StyledRun, bool) {
	run := StyledRun{Text: src[s.runStart:], Style: s.style}
	return run, run.Text != ""
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// runBuffer merges adjacent same-style pieces. Text is copied into the
// builder only once a second piece joins a run, so merging stays linear in
// the input size.
type runBuffer struct {
	runs  []StyledRun
	open  bool
	style Style
	first string
	multi bool
	buf   strings.Builder
}

func (b *runBuffer) add(run StyledRun) {
	if b.open && run.Style == b.style {
		if !b.multi {
			b.buf.WriteString(b.first)
			b.multi = true
		}
		b.buf.WriteString(run.Text)
		return
	}
	b.flush()
	b.open, b.style, b.first = true, run.Style, run.Text
}

func (b *runBuffer) flush() {
	if !b.open {
		return
	}
	text := b.first
	if b.multi {
		text = b.buf.String()
		b.buf.Reset()
		b.multi = false
	}
	b.runs = append(b.runs, StyledRun{Text: text, Style: b.style})
	b.open = false
}

// ParseStyles splits text into styled runs. Recognized SGR sequences are
// consumed; everything else, including malformed or unterminated escape
// sequences, is kept verbatim. Adjacent runs never share a style.
func ParseStyles(text string) []StyledRun {
	var (
		out   runBuffer
		state styleScan
	)
	for i := 0; i < len(text); i++ {
		var (
			run StyledRun
			ok  bool
		)
		state, run, ok = state.step(text, i)
		if ok {
			out.add(run)
		}
	}
	if run, ok := state.finish(text); ok {
		out.add(run)
	}
	out.flush()
	return out.runs
}

// PlainText returns text with every recognized SGR sequence removed.
func PlainText(text string) string {
	if strings.IndexByte(text, esc) < 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, run := range ParseStyles(text) {
		b.WriteString(run.Text)
	}
	return b.String()
}

// SplitRunsByLine cuts document-level runs at line terminators ("\n", "\r"
// or "\r\n") and groups them per line. Terminators are dropped. A style
// that spans a line break continues on the next line. A trailing
// terminator does not start an extra line.
func SplitRunsByLine(runs []StyledRun) [][]StyledRun {
	var (
		lines   [][]StyledRun
		current []StyledRun
		pending bool // a terminator has been seen and its line not yet closed
		lastCR  bool // previous byte was '\r' (so a following '\n' is part of it)
	)
	for _, run := range runs {
		text := run.Text
		start := 0
		for i := 0; i < len(text); i++ {
			c := text[i]
			if c == '\n' && lastCR && i == start {
				start = i + 1
				lastCR = false
				continue
			}
			lastCR = false
			if c != '\n' && c != '\r' {
				continue
			}
			if i > start {
				current = append(current, StyledRun{Text: text[start:i], Style: run.Style})
			}
			lines = append(lines, current)
			current = nil
			pending = false
			start = i + 1
			lastCR = c == '\r'
		}
		if start < len(text) {
			current = append(current, StyledRun{Text: text[start:], Style: run.Style})
			pending = true
			lastCR = false
		}
	}
	if pending {
		lines = append(lines, current)
	}
	return lines
}

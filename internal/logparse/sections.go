package logparse

import "strings"

// SectionKind distinguishes the implicit leading region from steps.
type SectionKind uint8

const (
	SectionSetup SectionKind = iota
	SectionStep
)

func (k SectionKind) String() string {
	if k == SectionStep {
		return "step"
	}
	return "setup"
}

// MarshalText lets encoders print kinds by name.
func (k SectionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Section is a foldable line range. Start and End are inclusive line
// indices; a Setup section cut off by a group on line 0, or the Setup
// section of an empty log, has End == -1.
type Section struct {
	Kind  SectionKind `json:"kind" yaml:"kind"`
	Start int         `json:"start" yaml:"start"`
	End   int         `json:"end" yaml:"end"`
	Name  string      `json:"name,omitempty" yaml:"name,omitempty"`
}

// Title is the display name; the setup region is called "Setup".
func (s Section) Title() string {
	if s.Kind == SectionSetup && s.Name == "" {
		return "Setup"
	}
	return s.Name
}

// Empty reports whether the section covers no lines.
func (s Section) Empty() bool {
	return s.End < s.Start
}

// Len is the number of lines covered.
func (s Section) Len() int {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start + 1
}

// Contains reports whether line falls inside the section.
func (s Section) Contains(line int) bool {
	return line >= s.Start && line <= s.End
}

const groupMarker = "##[group]"

// ExtractSections cuts text into the leading Setup region and one Step per
// "##[group]" line. Each step runs until the line before the next group or
// to the last line. The result always starts with the Setup section.
func ExtractSections(text string) []Section {
	raws := splitLines(text)
	sections := []Section{{Kind: SectionSetup, Start: 0}}
	for li, raw := range raws {
		at := strings.Index(raw, groupMarker)
		if at < 0 {
			continue
		}
		sections[len(sections)-1].End = li - 1
		sections = append(sections, Section{
			Kind:  SectionStep,
			Start: li,
			Name:  strings.TrimSpace(PlainText(raw[at+len(groupMarker):])),
		})
	}
	sections[len(sections)-1].End = len(raws) - 1
	return sections
}

// SectionAt returns the index of the section containing line, or -1.
func SectionAt(sections []Section, line int) int {
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].Contains(line) {
			return i
		}
	}
	return -1
}

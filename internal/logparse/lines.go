package logparse

// splitLines breaks text at "\n", "\r" and "\r\n". Terminators are not part
// of the returned lines, a trailing terminator does not produce an empty
// final line, and empty text has no lines.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// CountLines returns the number of lines ParseLines would produce.
func CountLines(text string) int {
	return len(splitLines(text))
}

package parser

// SplitLines splits text on "\n", "\r\n" or a lone "\r". The terminators are
// dropped and a terminator at the very end does not yield an empty line.
func SplitLines(text string) []string {
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

// ParseMarker reports whether line is a component marker and returns its id.
// A marker is `::` followed by one or more of [A-Za-z0-9_], with nothing
// else on the line except surrounding spaces and tabs.
func ParseMarker(line string) (string, bool) {
	s := trimHorizontal(line)
	if len(s) < 2 || s[0] != ':' || s[1] != ':' {
		return "", false
	}

	id := s[2:]
	if !IsValidID(id) {
		return "", false
	}

	return id, true
}

// IsValidID reports whether id could appear in a marker line.
func IsValidID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if !isIdentByte(id[i]) {
			return false
		}
	}
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

func isHorizontalSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func trimHorizontal(s string) string {
	start, end := 0, len(s)
	for start < end && isHorizontalSpace(s[start]) {
		start++
	}
	for end > start && isHorizontalSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

// isBlank treats a line holding only whitespace as blank.
func isBlank(line string) bool {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '\v', '\f':
		default:
			return false
		}
	}
	return true
}

package analyzer

import "strings"

var degreeFuncs = []string{"sin", "cos", "tan"}

// rewriteDegrees wraps the argument of every sin, cos and tan call in
// radians(...). Only whole identifiers match, so asin and sinh are left
// alone. Text with unbalanced parentheses is returned unchanged and the
// parser reports it.
func rewriteDegrees(text string) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		name, open := degreeCall(text, i)
		if name == "" {
			b.WriteByte(text[i])
			i++
			continue
		}
		end := closingParen(text, open)
		if end < 0 {
			return text
		}
		b.WriteString(name)
		b.WriteString("(radians(")
		b.WriteString(rewriteDegrees(text[open+1 : end]))
		b.WriteString("))")
		i = end + 1
	}
	return b.String()
}

// degreeCall reports a trig call starting at i and the index of its "(".
func degreeCall(text string, i int) (string, int) {
	if i > 0 && isIdentByte(text[i-1]) {
		return "", 0
	}
	for _, name := range degreeFuncs {
		if !strings.HasPrefix(text[i:], name) {
			continue
		}
		j := i + len(name)
		if j < len(text) && isIdentByte(text[j]) {
			continue
		}
		for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
			j++
		}
		if j < len(text) && text[j] == '(' {
			return name, j
		}
	}
	return "", 0
}

func closingParen(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

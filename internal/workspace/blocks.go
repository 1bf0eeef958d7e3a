package workspace

import "strings"

type lineKind int

const (
	lineText lineKind = iota
	lineCode
	lineFrontMatter
)

// blocks classifies each line of a document as text, fenced code
// (fence lines included) or front matter (delimiters included).
func blocks(content string) []lineKind {
	lines := strings.Split(content, "\n")
	kinds := make([]lineKind, len(lines))

	start := 0
	if len(lines) > 0 && strings.TrimRight(lines[0], "\r") == "---" {
		for i := 1; i < len(lines); i++ {
			l := strings.TrimRight(lines[i], "\r")
			if l == "---" || l == "..." {
				for j := 0; j <= i; j++ {
					kinds[j] = lineFrontMatter
				}
				start = i + 1
				break
			}
		}
	}

	var fence string
	for i := start; i < len(lines); i++ {
		l := strings.TrimRight(lines[i], "\r")
		if fence != "" {
			kinds[i] = lineCode
			if f := fenceOf(l); f != "" && f[0] == fence[0] && len(f) >= len(fence) && strings.TrimSpace(strings.TrimLeft(l, " ")[len(f):]) == "" {
				fence = ""
			}
			continue
		}
		if f := fenceOf(l); f != "" {
			kinds[i] = lineCode
			fence = f
		}
	}
	return kinds
}

// fenceOf returns the fence marker (``` or ~~~, possibly longer) opening line, or "".
func fenceOf(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return ""
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return ""
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return ""
	}
	return trimmed[:n]
}

// codeRanges returns the byte ranges of content that are not text lines.
func codeRanges(content string) [][2]int {
	kinds := blocks(content)

	var ranges [][2]int
	offset := 0
	for i, line := range strings.Split(content, "\n") {
		end := offset + len(line)
		if kinds[i] != lineText {
			if n := len(ranges); n > 0 && ranges[n-1][1] >= offset-1 {
				ranges[n-1][1] = end
			} else {
				ranges = append(ranges, [2]int{offset, end})
			}
		}
		offset = end + 1
	}
	return ranges
}

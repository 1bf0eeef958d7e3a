package workspace

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Link is a wiki link ([[target]]) or markdown link ([text](target)) in a note.
type Link struct {
	Embed   bool   // prefixed with "!"
	Wiki    bool   // [[...]] syntax
	Target  string // decoded vault path as written, without subpath
	Subpath string // "#heading" or "#^block", may be empty
	Text    string // wiki alias or markdown label
	Start   int    // byte offset of the link in the note
	End     int
}

var (
	wikiLinkRe     = regexp.MustCompile(`(!?)\[\[([^\[\]|#]*)(#[^\[\]|]*)?(?:\|([^\[\]]*))?\]\]`)
	markdownLinkRe = regexp.MustCompile(`(!?)\[([^\[\]]*)\]\((<[^<>]+>|[^()\s]+)\)`)
)

// Links returns the links of a note in document order.
// Links in fenced code blocks, front matter and external URLs are skipped.
func Links(content string) []Link {
	skip := codeRanges(content)
	inCode := func(pos int) bool {
		for _, r := range skip {
			if pos >= r[0] && pos < r[1] {
				return true
			}
		}
		return false
	}

	var links []Link
	for _, m := range wikiLinkRe.FindAllStringSubmatchIndex(content, -1) {
		if inCode(m[0]) {
			continue
		}
		l := Link{
			Embed:  m[3] > m[2],
			Wiki:   true,
			Target: strings.TrimSpace(content[m[4]:m[5]]),
			Start:  m[0],
			End:    m[1],
		}
		if m[6] >= 0 {
			l.Subpath = content[m[6]:m[7]]
		}
		if m[8] >= 0 {
			l.Text = content[m[8]:m[9]]
		}
		if l.Target == "" {
			continue
		}
		links = append(links, l)
	}

	for _, m := range markdownLinkRe.FindAllStringSubmatchIndex(content, -1) {
		if inCode(m[0]) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(content[m[6]:m[7]], "<"), ">")
		if isExternal(raw) {
			continue
		}
		target, subpath := raw, ""
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			target, subpath = raw[:i], raw[i:]
		}
		if decoded, err := url.PathUnescape(target); err == nil {
			target = decoded
		}
		if target == "" {
			continue
		}
		links = append(links, Link{
			Embed:   m[3] > m[2],
			Target:  target,
			Subpath: subpath,
			Text:    content[m[4]:m[5]],
			Start:   m[0],
			End:     m[1],
		})
	}

	sort.Slice(links, func(i, j int) bool { return links[i].Start < links[j].Start })
	return links
}

// Embeds returns the embedded links (![[...]], ![...](...)) of a note.
func Embeds(content string) []Link {
	var embeds []Link
	for _, l := range Links(content) {
		if l.Embed {
			embeds = append(embeds, l)
		}
	}
	return embeds
}

// Render returns the link text pointing at target, keeping the syntax,
// subpath and text of l.
func (l Link) Render(target string) string {
	var b strings.Builder
	if l.Embed {
		b.WriteByte('!')
	}

	if l.Wiki {
		b.WriteString("[[")
		b.WriteString(target)
		b.WriteString(l.Subpath)
		if l.Text != "" {
			b.WriteByte('|')
			b.WriteString(l.Text)
		}
		b.WriteString("]]")
		return b.String()
	}

	b.WriteByte('[')
	b.WriteString(l.Text)
	b.WriteString("](")
	b.WriteString(escapeTarget(target))
	b.WriteString(l.Subpath)
	b.WriteByte(')')
	return b.String()
}

// RewriteLinks replaces every link for which fn returns true with the text fn returns.
// An empty replacement removes the link.
func RewriteLinks(content string, fn func(Link) (string, bool)) string {
	links := Links(content)
	if len(links) == 0 {
		return content
	}

	var b strings.Builder
	last := 0
	for _, l := range links {
		if l.Start < last {
			continue
		}
		replacement, ok := fn(l)
		if !ok {
			continue
		}
		b.WriteString(content[last:l.Start])
		b.WriteString(replacement)
		last = l.End
	}
	b.WriteString(content[last:])
	return b.String()
}

func isExternal(target string) bool {
	return strings.Contains(target, "://") ||
		strings.HasPrefix(target, "mailto:") ||
		strings.HasPrefix(target, "#")
}

func escapeTarget(target string) string {
	segments := strings.Split(target, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

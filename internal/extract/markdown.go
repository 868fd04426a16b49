package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\(\s*([^)\s]+)(?:\s+"[^"]*")?\s*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\(\s*([^)\s]+)(?:\s+"[^"]*")?\s*\)`)
	roleRe       = regexp.MustCompile("\\{[\\w:-]+\\}`([^`]*)`")
	inlineCodeRe = regexp.MustCompile("`([^`]*)`")
	strongRe     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	emRe         = regexp.MustCompile(`\*([^*\s][^*]*)\*`)
	targetRe     = regexp.MustCompile(`^\(([^()\s]+)\)=$`)
	orderedRe    = regexp.MustCompile(`^\d+[.)]\s+`)
	roleTargetRe = regexp.MustCompile(`\s*<[^>]*>$`)
)

// Directives whose bodies are navigation, not prose.
var skippedDirectives = map[string]bool{
	"toctree":        true,
	"include":        true,
	"literalinclude": true,
}

// Markdown extracts plain text and structure from a markdown body, as
// written in MyST-flavoured Sphinx sources. It is a line scanner, not a
// full CommonMark parser.
func Markdown(body string) Content {
	s := &scanner{}
	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		s.line(line)
	}
	s.finish()

	out := Content{
		Format:     "text",
		Content:    strings.Join(s.blocks, "\n\n"),
		Summary:    s.summary,
		Headings:   s.headings,
		CodeBlocks: s.code,
		Links:      s.links,
		Images:     s.images,
	}
	out.Keywords = keywords(s.prose, s.headingWords())
	return out
}

type scanner struct {
	blocks   []string
	prose    []string
	para     []string
	summary  string
	headings []Heading
	code     []CodeBlock
	links    []Link
	images   []Image

	pendingID string

	fence     string
	fenceInfo string
	fenced    []string
}

func (s *scanner) line(raw string) {
	trimmed := strings.TrimSpace(raw)

	if s.fence != "" {
		if closesFence(trimmed, s.fence) {
			s.closeFence()
			return
		}
		s.fenced = append(s.fenced, raw)
		return
	}

	if marker, info, ok := openFence(trimmed); ok {
		s.flush()
		s.fence, s.fenceInfo, s.fenced = marker, info, nil
		return
	}

	if m := targetRe.FindStringSubmatch(trimmed); m != nil {
		s.flush()
		s.pendingID = m[1]
		return
	}

	if level, text, ok := atxHeading(trimmed); ok {
		s.flush()
		s.collectRefs(text)
		text = inlineText(text)
		if text != "" {
			id := s.pendingID
			if id == "" {
				id = slug(text)
			}
			s.headings = append(s.headings, Heading{Text: text, Level: level, ID: id})
			s.blocks = append(s.blocks, text)
		}
		s.pendingID = ""
		return
	}

	if trimmed == "" || isRule(trimmed) || isTableSeparator(trimmed) || strings.HasPrefix(trimmed, "<!--") {
		s.flush()
		return
	}

	s.pendingID = ""
	s.collectRefs(trimmed)
	if text := inlineText(stripBlockMarkers(trimmed)); text != "" {
		s.para = append(s.para, text)
	}
}

func (s *scanner) flush() {
	if len(s.para) == 0 {
		return
	}
	p := strings.Join(s.para, " ")
	s.para = nil
	s.addProse(p)
}

func (s *scanner) addProse(p string) {
	s.blocks = append(s.blocks, p)
	s.prose = append(s.prose, p)
	if s.summary == "" {
		s.summary = p
	}
}

func (s *scanner) closeFence() {
	lines := s.fenced
	info := s.fenceInfo
	s.fence, s.fenceInfo, s.fenced = "", "", nil

	name, arg := directive(info)
	switch {
	case name == "":
		s.addCode(info, lines)
	case name == "code-block" || name == "code" || name == "code-cell":
		s.addCode(arg, dropOptions(lines))
	case skippedDirectives[name]:
	default:
		var parts []string
		for _, l := range dropOptions(lines) {
			t := strings.TrimSpace(l)
			if t == "" {
				continue
			}
			s.collectRefs(t)
			if text := inlineText(stripBlockMarkers(t)); text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) > 0 {
			s.addProse(strings.Join(parts, " "))
		}
	}
}

func (s *scanner) addCode(lang string, lines []string) {
	text := strings.Trim(strings.Join(lines, "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return
	}
	s.code = append(s.code, CodeBlock{Language: strings.TrimSpace(lang), Content: text})
	s.blocks = append(s.blocks, text)
}

// finish closes an unterminated fence as if the document ended it.
func (s *scanner) finish() {
	if s.fence != "" {
		s.closeFence()
	}
	s.flush()
}

func (s *scanner) collectRefs(line string) {
	for _, m := range imageRe.FindAllStringSubmatch(line, -1) {
		s.images = append(s.images, Image{Alt: m[1], Src: m[2]})
	}
	rest := imageRe.ReplaceAllString(line, "")
	for _, m := range linkRe.FindAllStringSubmatch(rest, -1) {
		s.links = append(s.links, Link{Text: inlineText(m[1]), URL: m[2], Type: linkType(m[2])})
	}
}

func (s *scanner) headingWords() []string {
	out := make([]string, len(s.headings))
	for i, h := range s.headings {
		out[i] = h.Text
	}
	return out
}

func linkType(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return "external"
	}
	return "internal"
}

func openFence(trimmed string) (marker, info string, ok bool) {
	for _, ch := range []string{"`", "~"} {
		n := 0
		for n < len(trimmed) && trimmed[n] == ch[0] {
			n++
		}
		if n >= 3 {
			return trimmed[:n], strings.TrimSpace(trimmed[n:]), true
		}
	}
	return "", "", false
}

func closesFence(trimmed, marker string) bool {
	if !strings.HasPrefix(trimmed, marker) {
		return false
	}
	return strings.Trim(trimmed, marker[:1]) == ""
}

// directive splits a MyST fence info string such as "{note} Title" into its
// name and argument. Plain code fences return an empty name.
func directive(info string) (name, arg string) {
	if !strings.HasPrefix(info, "{") {
		return "", ""
	}
	end := strings.IndexByte(info, '}')
	if end < 0 {
		return "", ""
	}
	return info[1:end], strings.TrimSpace(info[end+1:])
}

func dropOptions(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), ":") && len(out) == 0 {
			continue
		}
		out = append(out, l)
	}
	return out
}

func atxHeading(trimmed string) (int, string, bool) {
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	rest := trimmed[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	text := strings.TrimSpace(rest)
	text = strings.TrimSpace(strings.TrimRight(text, "#"))
	return level, text, true
}

func isRule(trimmed string) bool {
	compact := strings.ReplaceAll(trimmed, " ", "")
	if len(compact) < 3 {
		return false
	}
	c := compact[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	return strings.Trim(compact, string(c)) == ""
}

func isTableSeparator(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "|") {
		return false
	}
	return strings.Trim(trimmed, "|-: ") == ""
}

func stripBlockMarkers(trimmed string) string {
	for strings.HasPrefix(trimmed, ">") {
		trimmed = strings.TrimSpace(trimmed[1:])
	}
	for _, p := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(trimmed, p) {
			trimmed = strings.TrimSpace(trimmed[len(p):])
			break
		}
	}
	trimmed = orderedRe.ReplaceAllString(trimmed, "")
	if strings.HasPrefix(trimmed, "|") {
		cells := strings.Split(strings.Trim(trimmed, "|"), "|")
		for i, c := range cells {
			cells[i] = strings.TrimSpace(c)
		}
		trimmed = strings.Join(cells, " ")
	}
	return trimmed
}

// inlineText strips inline markup, keeping the visible text.
func inlineText(s string) string {
	s = imageRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllString(s, "$1")
	s = roleRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := roleRe.FindStringSubmatch(m)[1]
		if t := roleTargetRe.ReplaceAllString(inner, ""); t != "" {
			return t
		}
		return inner
	})
	s = inlineCodeRe.ReplaceAllString(s, "$1")
	s = strongRe.ReplaceAllString(s, "$1")
	s = emRe.ReplaceAllString(s, "$1")
	return strings.Join(strings.Fields(s), " ")
}

// slug builds a heading anchor: lowercase letters, digits, '_' and '-',
// with runs of whitespace and dashes collapsed to one dash.
func slug(text string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			dash = false
		case unicode.IsSpace(r) || r == '-':
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Title returns the text of the first heading outside fenced code, or "".
func Title(body string) string {
	fence := ""
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			if closesFence(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if marker, _, ok := openFence(trimmed); ok {
			fence = marker
			continue
		}
		if _, text, ok := atxHeading(trimmed); ok {
			if text = inlineText(text); text != "" {
				return text
			}
		}
	}
	return ""
}

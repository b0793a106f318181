package internal

import (
	"strings"
	"unicode"
)

var (
	textEscaper = strings.NewReplacer(
		string(CharLessThan), StrEscapedLess,
		string(CharOpenBrace), StrEscapedBrace,
	)
	attrValueEscaper = strings.NewReplacer(
		string(CharDoubleQuote), StrEscapedQuote,
	)
)

// EscapeText escapes characters that would otherwise open markup or an injection
func EscapeText(text string) string {
	return textEscaper.Replace(text)
}

// EscapeAttrValue escapes double quotes for a double-quoted attribute value
func EscapeAttrValue(value string) string {
	return attrValueEscaper.Replace(value)
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func leadingSpace(line string) int {
	i := 0
	for i < len(line) && isSpaceByte(line[i]) {
		i++
	}
	return i
}

func sharedSpacePrefix(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] && isSpaceByte(a[i]) {
		i++
	}
	return i
}

// CommonIndent returns the length of the leading whitespace shared by every
// non-blank line. Lines are compared pairwise, each against the previous
// non-blank line.
func CommonIndent(lines []string) int {
	common := -1
	prev := ""
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		if common < 0 {
			common = leadingSpace(line)
			prev = line
			continue
		}
		if shared := sharedSpacePrefix(prev, line); shared < common {
			common = shared
		}
		prev = line
	}
	if common < 0 {
		return 0
	}
	return common
}

func dedent(line string, common int) string {
	return line[min(common, len(line)):]
}

func writeTabs(b *strings.Builder, count int) {
	for i := 0; i < count; i++ {
		b.WriteByte(CharTab)
	}
}

// collapseSpace replaces every whitespace run with a single space
func collapseSpace(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	inSpace := false
	for _, r := range line {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace {
			b.WriteByte(CharSpace)
			inSpace = false
		}
		b.WriteRune(r)
	}
	if inSpace {
		b.WriteByte(CharSpace)
	}
	return b.String()
}

// pushSpace writes the separator the format asks for
func pushSpace(b *strings.Builder, info *TagInfo) {
	switch info.Format {
	case FormatSpace:
		b.WriteByte(CharSpace)
	case FormatLineSpace:
		b.WriteByte(CharNewline)
		writeTabs(b, info.IndentCount)
	}
}

// PushSpaceOnText writes the separator due before a tag or word
func PushSpaceOnText(b *strings.Builder, info *TagInfo) {
	if info.Preformatted {
		return
	}
	pushSpace(b, info)
}

// PushSpaceOnPop writes the separator due before the closing tag of closing.
// A line break is indented to the parent's depth.
func PushSpaceOnPop(b *strings.Builder, parent, closing *TagInfo) {
	if closing.Preformatted {
		return
	}
	switch closing.Format {
	case FormatSpace:
		b.WriteByte(CharSpace)
	case FormatLineSpace:
		b.WriteByte(CharNewline)
		writeTabs(b, parent.IndentCount)
	}
}

// PushAttrSpace writes the separator due before an attribute
func PushAttrSpace(b *strings.Builder, info *TagInfo) {
	if info.Preformatted {
		if info.Format == FormatText {
			b.WriteByte(CharSpace)
		}
		return
	}
	if info.Format == FormatLineSpace {
		b.WriteByte(CharNewline)
		writeTabs(b, info.IndentCount)
		return
	}
	b.WriteByte(CharSpace)
}

// PushText writes injected text. Whitespace runs collapse to one separator,
// line breaks become indented line breaks, and indentation deeper than the
// lines' common indent survives as a single space.
func PushText(b *strings.Builder, text string, info *TagInfo) {
	if info.Banned {
		return
	}
	if info.Preformatted {
		b.WriteString(text)
		return
	}

	lines := strings.Split(text, StrNewline)
	common := CommonIndent(lines[1:])
	for i, line := range lines {
		if i > 0 {
			if info.Format != FormatInitial {
				info.Format = FormatLineSpace
			}
			if isBlank(line) {
				continue
			}
			line = dedent(line, common)
		}
		writeCollapsed(b, line, info, i > 0)
	}
}

func writeCollapsed(b *strings.Builder, line string, info *TagInfo, keepGap bool) {
	gap := false
	for _, r := range line {
		if unicode.IsSpace(r) {
			switch info.Format {
			case FormatText:
				info.Format = FormatSpace
			case FormatLineSpace:
				gap = keepGap
			}
			continue
		}
		pushSpace(b, info)
		if gap {
			b.WriteByte(CharSpace)
			gap = false
		}
		b.WriteRune(r)
		info.Format = FormatText
	}
}

// PushAltText writes a script, style or comment body. Interior lines are
// dedented and re-indented but their content is left untouched; the last line
// lines up with the element's own tag.
func PushAltText(b *strings.Builder, text string, info *TagInfo, rules Ruleset) {
	if info.Banned {
		return
	}
	if info.Preformatted {
		b.WriteString(text)
		return
	}

	lines := strings.Split(text, StrNewline)
	b.WriteString(lines[0])
	if len(lines) == 1 {
		return
	}

	indent := rules.RespectIndentation()
	last := len(lines) - 1
	interior := lines[1:last]
	common := CommonIndent(interior)
	for _, line := range interior {
		b.WriteByte(CharNewline)
		if isBlank(line) {
			continue
		}
		if indent {
			writeTabs(b, info.IndentCount)
		}
		b.WriteString(dedent(line, common))
	}

	b.WriteByte(CharNewline)
	if indent {
		depth := info.IndentCount
		if !info.Inline && depth > 0 {
			depth--
		}
		writeTabs(b, depth)
	}
	b.WriteString(strings.TrimSpace(lines[last]))
}

// PushAttrValue writes a quoted attribute value. Interior lines sit one level
// deeper than the attributes of the owning tag; the last line sits at the
// attributes' depth.
func PushAttrValue(b *strings.Builder, text string, info *TagInfo, rules Ruleset) {
	if info.Banned {
		return
	}
	if info.Preformatted {
		b.WriteString(text)
		return
	}

	lines := strings.Split(text, StrNewline)
	b.WriteString(collapseSpace(lines[0]))
	if len(lines) == 1 {
		return
	}

	indent := rules.RespectIndentation()
	last := len(lines) - 1
	interior := lines[1:last]
	common := CommonIndent(interior)
	for _, line := range interior {
		b.WriteByte(CharNewline)
		if isBlank(line) {
			continue
		}
		if indent {
			writeTabs(b, info.IndentCount+1)
		}
		b.WriteString(strings.TrimRightFunc(collapseSpace(dedent(line, common)), unicode.IsSpace))
	}

	b.WriteByte(CharNewline)
	if indent {
		writeTabs(b, info.IndentCount)
	}
	b.WriteString(collapseSpace(strings.TrimSpace(lines[last])))
}

package internal

// TagInfo is the nesting context of one open element
type TagInfo struct {
	Tag          string
	Namespace    string
	Void         bool
	Inline       bool
	Banned       bool
	Preformatted bool
	IndentCount  int
	Format       TextFormat
}

// RootTagInfo returns the synthetic context that seeds every composition
func RootTagInfo(rules Ruleset) TagInfo {
	return TagInfo{
		Tag:       StrRootTag,
		Namespace: rules.InitialNamespace(),
		Inline:    true,
		Format:    FormatInitial,
	}
}

// NewTagInfo derives the context of tag opened inside prev.
// Banned and preformatted are inherited by every descendant.
func NewTagInfo(rules Ruleset, prev TagInfo, tag string) TagInfo {
	info := prev
	info.Tag = tag
	info.Void = rules.TagIsVoidEl(tag)
	info.Inline = rules.TagIsInlineEl(tag)
	info.Format = FormatText

	if rules.TagIsNamespaceEl(tag) {
		info.Namespace = tag
	}
	if rules.TagIsPreformattedEl(tag) {
		info.Preformatted = true
	}
	if rules.TagIsBannedEl(tag) {
		info.Banned = true
	}
	if rules.RespectIndentation() && !info.Void && !info.Inline {
		info.IndentCount++
	}
	return info
}

// TagInfoStack is the stack of open elements, root first
type TagInfoStack []TagInfo

// Top returns the current context
func (s TagInfoStack) Top() *TagInfo {
	return &s[len(s)-1]
}

// Parent returns the context below the top, or the top itself at root
func (s TagInfoStack) Parent() *TagInfo {
	if len(s) < 2 {
		return s.Top()
	}
	return &s[len(s)-2]
}

// Push adds a context
func (s *TagInfoStack) Push(info TagInfo) {
	*s = append(*s, info)
}

// Pop removes and returns the top context. The root is never popped.
func (s *TagInfoStack) Pop() (TagInfo, bool) {
	if len(*s) < 2 {
		return TagInfo{}, false
	}
	top := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return top, true
}

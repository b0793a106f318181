package internal

import (
	"strings"

	"go.uber.org/zap"
)

// composeSteps writes one chunk of steps
func (c *Composer) composeSteps(template string, chunk []Step) {
	for _, step := range chunk {
		text := step.Text(template)
		switch step.Kind {
		case StepKindTag:
			c.pushElement(text)
		case StepKindElementClosed:
			c.closeElement()
		case StepKindEmptyElementClosed:
			c.closeEmptyElement()
		case StepKindTailTag:
			c.popElement(text)
		case StepKindTailElementClosed:
			c.closeTailElement()
		case StepKindText:
			c.pushTextStep(text)
		case StepKindTextAlt:
			PushAltText(&c.out, text, c.stack.Top(), c.rules)
		case StepKindTextSpace, StepKindElementSpace:
			c.pushTextSpace(text)
		case StepKindAttr:
			c.pushAttr(text)
		case StepKindAttrValueUnquoted:
			c.pushAttrValue(text, "")
		case StepKindAttrValueSingleQuoted:
			c.pushAttrValue(text, StrSingleQuote)
		case StepKindAttrValueDoubleQuoted:
			c.pushAttrValue(text, StrDoubleQuote)
		}
	}
}

func (c *Composer) pushElement(tag string) {
	parent := c.stack.Top()
	info := NewTagInfo(c.rules, *parent, tag)
	if !info.Banned {
		PushSpaceOnText(&c.out, parent)
		c.out.WriteString(StrOpenTag)
		c.out.WriteString(tag)
	}
	c.stack.Push(info)
}

// pushLineBeforeClose puts the '>' or '/>' of a multi-line opening tag on its
// own line at the parent's depth.
func (c *Composer) pushLineBeforeClose(info *TagInfo) {
	if info.Format == FormatLineSpace && !info.Preformatted {
		c.out.WriteByte(CharNewline)
		writeTabs(&c.out, c.stack.Parent().IndentCount)
	}
}

func (c *Composer) closeElement() {
	top := c.stack.Top()
	if !top.Banned {
		c.pushLineBeforeClose(top)
		c.out.WriteString(StrCloseTag)
	}
	top.Format = FormatText

	if top.Void {
		info, ok := c.stack.Pop()
		if ok && !info.Banned {
			c.stack.Top().Format = FormatText
		}
	}
}

func (c *Composer) closeEmptyElement() {
	top := c.stack.Top()
	if !top.Banned {
		c.pushLineBeforeClose(top)
	}
	info, ok := c.stack.Pop()
	if !ok || info.Banned {
		return
	}

	switch {
	case info.Namespace != StrHTMLNamespace:
		c.out.WriteString(StrSelfCloseTag)
	case info.Void:
		c.out.WriteString(StrCloseTag)
	default:
		c.out.WriteString(StrCloseTag)
		c.out.WriteString(StrCloseTagStart)
		c.out.WriteString(info.Tag)
		c.out.WriteString(StrCloseTag)
	}
	c.stack.Top().Format = FormatText
}

// popElement checks a closing tag against the open element. A mismatch drops
// the closing tag; the following '>' is dropped with it.
func (c *Composer) popElement(text string) {
	c.closing = false
	if len(c.stack) < 2 {
		c.logger.Debug(LogMsgClosingDropped, zap.String(LogFieldTag, text))
		return
	}

	top := c.stack.Top()
	closed, raw := text, false
	if tag, ok := c.rules.GetAltTextTagFromCloseSequence(text); ok {
		closed, raw = tag, true
	} else if tag, ok := c.rules.GetContentlessTagFromCloseSequence(text); ok {
		closed, raw = tag, true
	}

	if closed != top.Tag {
		c.logger.Debug(LogMsgClosingDropped,
			zap.String(LogFieldTag, closed),
			zap.String(LogFieldExpected, top.Tag))
		return
	}
	c.closing = true

	if top.Banned {
		return
	}
	if raw {
		c.out.WriteString(text)
		return
	}
	PushSpaceOnPop(&c.out, c.stack.Parent(), top)
	c.out.WriteString(StrCloseTagStart)
	c.out.WriteString(text)
}

func (c *Composer) closeTailElement() {
	if !c.closing {
		return
	}
	c.closing = false

	info, ok := c.stack.Pop()
	if !ok || info.Banned {
		return
	}
	c.out.WriteString(StrCloseTag)
	c.stack.Top().Format = FormatText
}

func (c *Composer) pushTextStep(text string) {
	top := c.stack.Top()
	if top.Banned {
		return
	}
	PushSpaceOnText(&c.out, top)
	c.out.WriteString(text)
	top.Format = FormatText
}

// pushTextSpace records whitespace as a pending separator. A run containing a
// line break becomes a line break; anything else a single space. Leading
// document whitespace and runs after a pending line break are dropped.
func (c *Composer) pushTextSpace(text string) {
	top := c.stack.Top()
	if top.Banned {
		return
	}
	if top.Preformatted {
		c.out.WriteString(text)
		top.Format = FormatSpace
		return
	}
	if top.Format == FormatInitial || top.Format == FormatLineSpace {
		return
	}
	if strings.Contains(text, StrNewline) {
		top.Format = FormatLineSpace
		return
	}
	top.Format = FormatSpace
}

func (c *Composer) pushAttr(name string) {
	top := c.stack.Top()
	if top.Banned {
		return
	}
	PushAttrSpace(&c.out, top)
	c.out.WriteString(name)
	top.Format = FormatText
}

func (c *Composer) pushAttrValue(value, quote string) {
	top := c.stack.Top()
	if top.Banned {
		return
	}
	c.out.WriteString(StrAttrSetter)
	if quote == "" {
		c.out.WriteString(value)
		return
	}
	c.out.WriteString(quote)
	PushAttrValue(&c.out, value, top, c.rules)
	c.out.WriteString(quote)
}

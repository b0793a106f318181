package internal

import (
	"strings"

	"go.uber.org/zap"
)

// StepBuilder returns the compiled steps of a template, typically from a cache
type StepBuilder interface {
	Build(rules Ruleset, template string) *TemplateSteps
}

// workItem is either a pending template (steps != nil) or pending content
type workItem struct {
	content  Component
	template *Template
	steps    *TemplateSteps
	injIndex int
	depth    int
}

// Composer renders one content tree. It keeps its own work stack and nesting
// stack instead of recursing, so memory stays flat on deep trees and the
// output size can be checked between every unit of work.
type Composer struct {
	rules   Ruleset
	builder StepBuilder
	logger  *zap.Logger

	out     strings.Builder
	stack   TagInfoStack
	work    []workItem
	closing bool
}

// NewComposer creates a composer for one render
func NewComposer(builder StepBuilder, rules Ruleset, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		rules:   rules,
		builder: builder,
		logger:  logger,
		stack:   TagInfoStack{RootTagInfo(rules)},
	}
}

// Compose renders root with the given ruleset
func Compose(builder StepBuilder, rules Ruleset, root Component, logger *zap.Logger) (string, error) {
	return NewComposer(builder, rules, logger).Compose(root)
}

// Compose runs the work loop until the tree is exhausted or an error aborts it
func (c *Composer) Compose(root Component) (string, error) {
	c.logger.Debug(LogMsgComposeStart)
	if root == nil {
		return "", nil
	}
	c.pushContent(root)

	limit := c.rules.DocumentMemoryLimit()
	for len(c.work) > 0 {
		if c.out.Len() > limit {
			return "", c.fail(NewDocumentLimitError(limit, c.out.Len()))
		}

		item := c.work[len(c.work)-1]
		c.work = c.work[:len(c.work)-1]

		if item.steps == nil {
			c.composeContent(item.content)
			continue
		}
		if err := c.composeTemplate(item); err != nil {
			return "", c.fail(err)
		}
	}

	c.logger.Debug(LogMsgComposeDone, zap.Int(LogFieldOutputLen, c.out.Len()))
	return c.out.String(), nil
}

func (c *Composer) fail(err error) error {
	c.logger.Debug(LogMsgComposeFailed, zap.Error(err))
	return err
}

func (c *Composer) pushContent(content Component) {
	if tmpl, ok := content.(*Template); ok {
		if tmpl == nil {
			return
		}
		c.work = append(c.work, workItem{
			template: tmpl,
			steps:    c.builder.Build(c.rules, tmpl.Source),
		})
		return
	}
	c.work = append(c.work, workItem{content: content})
}

func (c *Composer) composeContent(content Component) {
	switch v := content.(type) {
	case Text:
		PushText(&c.out, EscapeText(string(v)), c.stack.Top())
	case UnescapedText:
		PushText(&c.out, string(v), c.stack.Top())
	case List:
		for i := len(v) - 1; i >= 0; i-- {
			if v[i] != nil {
				c.pushContent(v[i])
			}
		}
	default:
		c.logger.Debug(LogMsgAttrSlotIgnored)
	}
}

// composeTemplate writes the next chunk of a template and resolves the
// injection that follows it, if any.
func (c *Composer) composeTemplate(item workItem) error {
	index := item.injIndex
	if index == 0 {
		item.depth = len(c.stack)
	}
	item.injIndex++

	if index < len(item.steps.Steps) {
		c.composeSteps(item.template.Source, item.steps.Steps[index])
	}

	if index < len(item.steps.Injs) {
		value := item.template.Injection(index)
		if value == nil {
			c.logger.Debug(LogMsgInjectionMissing, zap.Int(LogFieldIndex, index))
		}
		switch item.steps.Injs[index].Kind {
		case StepKindAttrMapInjection:
			if err := c.addAttrInjection(value); err != nil {
				return err
			}
			c.work = append(c.work, item)
		case StepKindDescendantInjection:
			c.work = append(c.work, item)
			if value != nil {
				c.pushContent(value)
			}
		}
		return nil
	}

	if len(c.stack) != item.depth {
		return NewUnbalancedTemplateError(item.template.Source)
	}
	return nil
}

// addAttrInjection writes an attribute, an attribute with value, or a list of
// those. Nested lists are flattened without recursion.
func (c *Composer) addAttrInjection(value Component) error {
	pending := []Component{value}
	for len(pending) > 0 {
		next := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		switch v := next.(type) {
		case nil:
		case Attr:
			if err := ValidateAttrName(string(v)); err != nil {
				return err
			}
			c.pushAttr(string(v))
		case AttrVal:
			if err := ValidateAttrName(v.Name); err != nil {
				return err
			}
			c.pushAttr(v.Name)
			c.pushAttrValue(EscapeAttrValue(v.Value), StrDoubleQuote)
		case List:
			for i := len(v) - 1; i >= 0; i-- {
				pending = append(pending, v[i])
			}
		default:
			c.logger.Debug(LogMsgAttrSlotIgnored)
		}
	}
	return nil
}

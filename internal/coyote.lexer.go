package internal

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

// Step is a typed byte range into a template. Steps never copy template text.
type Step struct {
	Kind   StepKind `json:"kind"`
	Origin int      `json:"origin"`
	Target int      `json:"target"`
}

// Text returns the slice of template covered by the step
func (s Step) Text(template string) string {
	return template[s.Origin:s.Target]
}

// Len returns the byte length of the step
func (s Step) Len() int {
	return s.Target - s.Origin
}

// Lexer turns a template into a flat sequence of steps
type Lexer struct {
	rules  Ruleset
	logger *zap.Logger
}

// NewLexer creates a lexer for the given ruleset
func NewLexer(rules Ruleset, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated)
	return &Lexer{
		rules:  rules,
		logger: logger,
	}
}

// lexState is the per-call tokenizer state
type lexState struct {
	template  string
	steps     []Step
	window    *SlidingWindow
	windowAlt bool
	tag       string
	resume    StepKind
}

// Tokenize processes the template and returns its steps.
// One step is appended per state change; the last step always ends at len(template).
func (l *Lexer) Tokenize(template string) []Step {
	l.logger.Debug(LogMsgTokenizerStart, zap.Int(LogFieldTemplateLen, len(template)))

	s := &lexState{
		template: template,
		steps:    []Step{{Kind: StepKindInitial}},
		resume:   StepKindInitial,
	}

	for index, r := range template {
		end := index + utf8.RuneLen(r)

		if s.window != nil {
			if s.window.Slide(r) {
				if s.windowAlt {
					s.closeAltText(end)
				} else {
					s.closeContentless(end)
				}
				s.window = nil
			}
			continue
		}

		last := &s.steps[len(s.steps)-1]
		last.Target = index

		kind := last.Kind
		if kind == StepKindInjectionConfirmed {
			kind = s.resume
		}

		next := Route(r, kind)
		if next == last.Kind {
			continue
		}

		if next.IsInjection() {
			s.resume = kind
		}

		if last.Kind == StepKindElementClosed {
			if seq, ok := l.rules.GetAltTextCloseSequence(s.tag); ok {
				l.logger.Debug(LogMsgAltTextOpen, zap.String(LogFieldTag, s.tag))
				s.window = NewSlidingWindow(seq)
				s.windowAlt = true
				s.window.Slide(r)
				next = StepKindTextAlt
			}
		}

		if last.Kind == StepKindTag {
			tagText := last.Text(template)
			s.tag = tagText

			if prefix, ok := l.rules.TagIsContentlessEl(tagText); ok {
				seq, _ := l.rules.GetContentlessCloseSequence(prefix)
				l.logger.Debug(LogMsgContentlessOpen, zap.String(LogFieldTag, prefix))

				bodyStart := last.Origin + len(prefix)
				last.Target = bodyStart
				s.tag = prefix

				window := NewSlidingWindow(seq)
				window.SlideString(tagText[len(prefix):])
				if window.Slide(r) {
					// the delimiter closed on this very rune, e.g. <!---->
					s.pushContentlessClose(bodyStart, end, seq)
					continue
				}

				s.window = window
				s.windowAlt = false
				s.steps = append(s.steps, Step{Kind: StepKindTextAlt, Origin: bodyStart, Target: index})
				continue
			}
		}

		s.steps = append(s.steps, Step{Kind: next, Origin: index, Target: index})
	}

	s.steps[len(s.steps)-1].Target = len(template)

	l.logger.Debug(LogMsgTokenizerDone, zap.Int(LogFieldSteps, len(s.steps)))
	return s.steps
}

// popTextAlt removes the open TextAlt step and returns where its body began
func (s *lexState) popTextAlt() int {
	last := s.steps[len(s.steps)-1]
	s.steps = s.steps[:len(s.steps)-1]
	return last.Origin
}

// closeAltText ends an alt-text body; end is just past the closing sequence.
// The '>' that follows routes to TailElementClosed on its own.
func (s *lexState) closeAltText(end int) {
	bodyStart := s.popTextAlt()
	seqStart := end - len(s.window.Target())
	if seqStart > bodyStart {
		s.steps = append(s.steps, Step{Kind: StepKindTextAlt, Origin: bodyStart, Target: seqStart})
	}
	s.steps = append(s.steps, Step{Kind: StepKindTailTag, Origin: seqStart, Target: end})
}

// closeContentless ends a contentless body; end is just past the closing '>'.
func (s *lexState) closeContentless(end int) {
	bodyStart := s.popTextAlt()
	s.pushContentlessClose(bodyStart, end, s.window.Target())
}

// pushContentlessClose emits the body, the closing tag text and the final '>'.
// An empty body produces no TextAlt step.
func (s *lexState) pushContentlessClose(bodyStart, end int, seq string) {
	seqStart := end - len(seq)
	closeAt := end - 1
	if seqStart > bodyStart {
		s.steps = append(s.steps, Step{Kind: StepKindTextAlt, Origin: bodyStart, Target: seqStart})
	}
	s.steps = append(s.steps,
		Step{Kind: StepKindTailTag, Origin: seqStart, Target: closeAt},
		Step{Kind: StepKindTailElementClosed, Origin: closeAt, Target: end},
	)
}

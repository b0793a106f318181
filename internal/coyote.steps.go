package internal

import "go.uber.org/zap"

// TemplateSteps groups steps into chunks split at injection points.
// Steps[i] precedes Injs[i]; the final chunk has no injection after it.
type TemplateSteps struct {
	Steps [][]Step `json:"steps"`
	Injs  []Step   `json:"injs"`
}

// Compile splits a flat step sequence at every injection step
func Compile(steps []Step) *TemplateSteps {
	ts := &TemplateSteps{
		Steps: [][]Step{{}},
		Injs:  []Step{},
	}
	for _, step := range steps {
		if step.Kind.IsInjection() {
			ts.Injs = append(ts.Injs, step)
			ts.Steps = append(ts.Steps, []Step{})
			continue
		}
		last := len(ts.Steps) - 1
		ts.Steps[last] = append(ts.Steps[last], step)
	}
	return ts
}

// CompileTemplate tokenizes and compiles a template in one pass
func CompileTemplate(rules Ruleset, template string, logger *zap.Logger) *TemplateSteps {
	if logger == nil {
		logger = zap.NewNop()
	}
	ts := Compile(NewLexer(rules, logger).Tokenize(template))
	logger.Debug(LogMsgStepsCompiled,
		zap.Int(LogFieldChunks, len(ts.Steps)),
		zap.Int(LogFieldInjections, len(ts.Injs)))
	return ts
}

// StepCount returns the number of steps across all chunks and injections
func (ts *TemplateSteps) StepCount() int {
	count := len(ts.Injs)
	for _, chunk := range ts.Steps {
		count += len(chunk)
	}
	return count
}

// Footprint approximates the memory held for a template and its steps
func (ts *TemplateSteps) Footprint(template string) int {
	return len(template) + ts.StepCount()*StepByteSize
}

package coyote

import (
	"github.com/itsatony/go-coyote/internal"
	"go.uber.org/zap"
)

// StepCache memoizes compiled templates. It is safe for concurrent use and
// may be shared between documents through WithStepCache.
type StepCache = internal.StepCache

// StepCacheKeyer is implemented by custom rulesets whose tag tables differ
// between values of the same type.
type StepCacheKeyer = internal.StepCacheKeyer

// StepCacheStats is a snapshot of cache activity
type StepCacheStats = internal.StepCacheStats

// TemplateSteps is the compiled form of a template
type TemplateSteps = internal.TemplateSteps

// Step is one typed byte range of a compiled template
type Step = internal.Step

// NewStepCache creates an empty step cache
func NewStepCache(logger *zap.Logger) *StepCache {
	return internal.NewStepCache(logger)
}

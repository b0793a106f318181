package internal

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// stepCacheKey separates rulesets, since tag tables change how a template tokenizes
type stepCacheKey struct {
	rules    reflect.Type
	variant  string
	template string
}

// StepCacheKeyer lets a ruleset whose tag tables vary between values of the
// same type name its variant. Rulesets without it are keyed by type alone.
type StepCacheKeyer interface {
	StepCacheKey() string
}

func newStepCacheKey(rules Ruleset, template string) stepCacheKey {
	key := stepCacheKey{rules: reflect.TypeOf(rules), template: template}
	if keyer, ok := rules.(StepCacheKeyer); ok {
		key.variant = keyer.StepCacheKey()
	}
	return key
}

// StepCacheStats is a snapshot of cache activity
type StepCacheStats struct {
	Hits      int64 `json:"hits" yaml:"hits"`
	Misses    int64 `json:"misses" yaml:"misses"`
	Evictions int64 `json:"evictions" yaml:"evictions"`
	Entries   int   `json:"entries" yaml:"entries"`
	Footprint int   `json:"footprint" yaml:"footprint"`
}

// StepCache memoizes compiled steps by template text and ruleset type. Two
// values of one ruleset type are assumed to share tag tables unless the type
// implements StepCacheKeyer. When the footprint would pass the ruleset's
// cache limit, every entry is dropped at once.
type StepCache struct {
	mu        sync.RWMutex
	entries   map[stepCacheKey]*TemplateSteps
	footprint int
	hits      int64
	misses    int64
	evictions int64
	logger    *zap.Logger
}

// NewStepCache creates an empty cache
func NewStepCache(logger *zap.Logger) *StepCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StepCache{
		entries: make(map[stepCacheKey]*TemplateSteps),
		logger:  logger,
	}
}

// Build returns the cached steps for template, compiling them on first use
func (c *StepCache) Build(rules Ruleset, template string) *TemplateSteps {
	key := newStepCacheKey(rules, template)

	c.mu.RLock()
	steps, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		c.logger.Debug(LogMsgCacheHit, zap.Int(LogFieldTemplateLen, len(template)))
		return steps
	}

	compiled := CompileTemplate(rules, template, c.logger)
	size := compiled.Footprint(template)

	c.mu.Lock()
	defer c.mu.Unlock()

	// another goroutine may have compiled it meanwhile
	if steps, ok := c.entries[key]; ok {
		c.hits++
		return steps
	}
	c.misses++
	c.logger.Debug(LogMsgCacheMiss, zap.Int(LogFieldTemplateLen, len(template)))

	if limit := rules.CacheMemoryLimit(); c.footprint+size > limit && len(c.entries) > 0 {
		c.logger.Debug(LogMsgCacheEvicted,
			zap.Int(LogFieldEntries, len(c.entries)),
			zap.Int(LogFieldFootprint, c.footprint),
			zap.Int(LogFieldLimit, limit))
		c.entries = make(map[stepCacheKey]*TemplateSteps)
		c.footprint = 0
		c.evictions++
	}

	c.entries[key] = compiled
	c.footprint += size
	return compiled
}

// Stats returns a snapshot of the cache counters
func (c *StepCache) Stats() StepCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return StepCacheStats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Entries:   len(c.entries),
		Footprint: c.footprint,
	}
}

// Clear drops every entry; counters are kept
func (c *StepCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[stepCacheKey]*TemplateSteps)
	c.footprint = 0
}

package internal

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStepCache_Hit(t *testing.T) {
	cache := NewStepCache(zap.NewNop())
	rules := htmlRules()

	first := cache.Build(rules, "<p>{}</p>")
	second := cache.Build(rules, "<p>{}</p>")
	assert.Same(t, first, second)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, first.Footprint("<p>{}</p>"), stats.Footprint)
}

func TestStepCache_EvictsEverythingOverLimit(t *testing.T) {
	cache := NewStepCache(nil)
	rules := NewHTMLRules(DocumentParams{CacheMemoryLimit: 100})

	cache.Build(rules, "a")
	cache.Build(rules, "b")

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 1+2*StepByteSize, stats.Footprint)
}

func TestStepCache_OversizedEntryStillCached(t *testing.T) {
	cache := NewStepCache(nil)
	rules := NewHTMLRules(DocumentParams{CacheMemoryLimit: 1})

	cache.Build(rules, "a")
	stats := cache.Stats()
	assert.Equal(t, int64(0), stats.Evictions)
	assert.Equal(t, 1, stats.Entries)
}

func TestStepCache_SeparatesRulesets(t *testing.T) {
	cache := NewStepCache(nil)

	html := cache.Build(htmlRules(), "<script><b/></script>")
	xml := cache.Build(xmlRules(), "<script><b/></script>")

	assert.NotEqual(t, html, xml)
	assert.Equal(t, 2, cache.Stats().Entries)
}

func TestStepCache_Clear(t *testing.T) {
	cache := NewStepCache(nil)
	cache.Build(htmlRules(), "a")
	cache.Build(htmlRules(), "a")
	cache.Clear()

	stats := cache.Stats()
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, 0, stats.Footprint)
	assert.Equal(t, int64(1), stats.Hits)
}

func TestStepCache_Concurrent(t *testing.T) {
	cache := NewStepCache(nil)
	rules := htmlRules()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			template := fmt.Sprintf("<p>%d</p>", i%5)
			steps := cache.Build(rules, template)
			assert.Len(t, steps.Steps, 1)
		}(i)
	}
	wg.Wait()

	stats := cache.Stats()
	assert.Equal(t, 5, stats.Entries)
	assert.Equal(t, int64(50), stats.Hits+stats.Misses)
	assert.Equal(t, int64(5), stats.Misses)
}

// variantRules stands in for a ruleset type whose tables differ per value
type variantRules struct {
	*HTMLRules
	variant string
}

func (r variantRules) StepCacheKey() string { return r.variant }

func TestStepCache_SeparatesRulesetVariants(t *testing.T) {
	cache := NewStepCache(nil)
	html := NewHTMLRules(DefaultHTMLParams())

	plain := cache.Build(variantRules{HTMLRules: html, variant: "plain"}, "<p>{}</p>")
	again := cache.Build(variantRules{HTMLRules: html, variant: "plain"}, "<p>{}</p>")
	other := cache.Build(variantRules{HTMLRules: html, variant: "other"}, "<p>{}</p>")

	assert.Same(t, plain, again)
	assert.NotSame(t, plain, other)

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
}

func TestStepCache_SharesAcrossRulesetValues(t *testing.T) {
	cache := NewStepCache(nil)

	first := cache.Build(NewHTMLRules(DefaultHTMLParams()), "<p>{}</p>")
	second := cache.Build(NewHTMLRules(DefaultClientHTMLParams()), "<p>{}</p>")

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Stats().Entries)
}

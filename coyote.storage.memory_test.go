package coyote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	testTemplateStorage(t, func(t *testing.T) TemplateStorage {
		return NewMemoryStorage()
	})
}

func TestMemoryStorage_NewMemoryStorage(t *testing.T) {
	storage := NewMemoryStorage()
	require.NotNil(t, storage)
	assert.NotNil(t, storage.templates)
	assert.NotNil(t, storage.byID)
	assert.False(t, storage.closed)
}

func TestMemoryStorage_DeleteVersionDropsIndex(t *testing.T) {
	storage := NewMemoryStorage()
	ctx := context.Background()

	tmpl := &StoredTemplate{Name: "only", Source: "x"}
	require.NoError(t, storage.Save(ctx, tmpl))
	require.NoError(t, storage.DeleteVersion(ctx, "only", 1))

	assert.NotContains(t, storage.templates, "only")
	assert.NotContains(t, storage.byID, tmpl.ID)
}

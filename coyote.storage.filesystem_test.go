package coyote

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStorage(t *testing.T) {
	testTemplateStorage(t, func(t *testing.T) TemplateStorage {
		s, err := NewFilesystemStorage(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func TestNewFilesystemStorage(t *testing.T) {
	t.Run("empty root", func(t *testing.T) {
		_, err := NewFilesystemStorage("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgInvalidStorageRoot)
	})

	t.Run("creates missing root", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nested", "templates")
		_, err := NewFilesystemStorage(root)
		require.NoError(t, err)

		info, err := os.Stat(root)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestFilesystemStorage_Layout(t *testing.T) {
	root := t.TempDir()
	s, err := NewFilesystemStorage(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "page", Source: "<p></p>", Ruleset: RulesetNameHTML}))
	require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "page", Source: "<p>{}</p>"}))

	data, err := os.ReadFile(filepath.Join(root, "page", "v2.json"))
	require.NoError(t, err)

	var stored StoredTemplate
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "page", stored.Name)
	assert.Equal(t, "<p>{}</p>", stored.Source)
	assert.Equal(t, 2, stored.Version)

	t.Run("stray files ignored", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "page", "notes.txt"), []byte("x"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "page", "vX.json"), []byte("{}"), 0644))

		versions, err := s.ListVersions(ctx, "page")
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1}, versions)
	})

	t.Run("last version removes directory", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "single", Source: "x"}))
		require.NoError(t, s.DeleteVersion(ctx, "single", 1))

		_, err := os.Stat(filepath.Join(root, "single"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("survives reopen", func(t *testing.T) {
		reopened, err := NewFilesystemStorage(root)
		require.NoError(t, err)

		got, err := reopened.Get(ctx, "page")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Version)
		assert.Equal(t, stored.ID, got.ID)
	})
}

func TestValidateTemplateNameForFilesystem(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"simple", "greeting", ""},
		{"dotted", "emails.welcome", ""},
		{"dashes", "email-welcome_v2", ""},
		{"empty", "", ErrMsgInvalidTemplateName},
		{"parent dir", "../etc", ErrMsgPathTraversalDetected},
		{"embedded parent dir", "a..b", ErrMsgPathTraversalDetected},
		{"slash", "a/b", ErrMsgInvalidTemplateName},
		{"backslash", `a\b`, ErrMsgInvalidTemplateName},
		{"colon", "c:x", ErrMsgInvalidTemplateName},
		{"angle bracket", "<p>", ErrMsgInvalidTemplateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTemplateNameForFilesystem(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFilesystemStorage_RejectsTraversal(t *testing.T) {
	s, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = s.Save(ctx, &StoredTemplate{Name: "../escape", Source: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPathTraversalDetected)

	_, err = s.Get(ctx, "../escape")
	require.Error(t, err)
}

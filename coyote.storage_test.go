package coyote

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTemplateStorage runs the behavior every TemplateStorage must share.
// newStorage must return an empty storage.
func testTemplateStorage(t *testing.T, newStorage func(t *testing.T) TemplateStorage) {
	ctx := context.Background()

	t.Run("save assigns versions", func(t *testing.T) {
		s := newStorage(t)

		first := &StoredTemplate{
			Name:      "greeting",
			Source:    "<p>{}</p>",
			Ruleset:   RulesetNameHTML,
			CreatedBy: "tester",
			Tags:      []string{"public"},
			Metadata:  map[string]string{"author": "coyote"},
		}
		require.NoError(t, s.Save(ctx, first))
		assert.True(t, strings.HasPrefix(string(first.ID), TemplateIDPrefix))
		assert.Equal(t, 1, first.Version)
		assert.False(t, first.CreatedAt.IsZero())

		second := &StoredTemplate{Name: "greeting", Source: "<h1>{}</h1>"}
		require.NoError(t, s.Save(ctx, second))
		assert.Equal(t, 2, second.Version)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("get returns latest", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "page", Source: "v1", Tags: []string{"a"}}))
		require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "page", Source: "v2", Ruleset: RulesetNameXML}))

		got, err := s.Get(ctx, "page")
		require.NoError(t, err)
		assert.Equal(t, "v2", got.Source)
		assert.Equal(t, 2, got.Version)
		assert.Equal(t, RulesetNameXML, got.Ruleset)

		old, err := s.GetVersion(ctx, "page", 1)
		require.NoError(t, err)
		assert.Equal(t, "v1", old.Source)
		assert.Equal(t, []string{"a"}, old.Tags)

		byID, err := s.GetByID(ctx, got.ID)
		require.NoError(t, err)
		assert.Equal(t, got.Source, byID.Source)
	})

	t.Run("not found", func(t *testing.T) {
		s := newStorage(t)

		_, err := s.Get(ctx, "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgTemplateNotFound)

		_, err = s.GetByID(ctx, "tmpl_missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgTemplateNotFound)

		_, err = s.GetVersion(ctx, "missing", 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgVersionNotFound)

		err = s.Delete(ctx, "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgTemplateNotFound)

		err = s.DeleteVersion(ctx, "missing", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgVersionNotFound)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		s := newStorage(t)
		err := s.Save(ctx, &StoredTemplate{Source: "<p></p>"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgInvalidTemplateName)
	})

	t.Run("returned templates are copies", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "copy", Source: "x", Tags: []string{"a"}}))

		got, err := s.Get(ctx, "copy")
		require.NoError(t, err)
		got.Tags[0] = "changed"

		again, err := s.Get(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, again.Tags)
	})

	t.Run("exists and versions", func(t *testing.T) {
		s := newStorage(t)

		exists, err := s.Exists(ctx, "page")
		require.NoError(t, err)
		assert.False(t, exists)

		versions, err := s.ListVersions(ctx, "page")
		require.NoError(t, err)
		assert.Empty(t, versions)

		for i := 0; i < 3; i++ {
			require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "page", Source: fmt.Sprintf("v%d", i+1)}))
		}

		exists, err = s.Exists(ctx, "page")
		require.NoError(t, err)
		assert.True(t, exists)

		versions, err = s.ListVersions(ctx, "page")
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2, 1}, versions)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "page", Source: "v1"}))
		require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "page", Source: "v2"}))

		require.NoError(t, s.DeleteVersion(ctx, "page", 2))
		got, err := s.Get(ctx, "page")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Version)

		require.NoError(t, s.Delete(ctx, "page"))
		exists, err := s.Exists(ctx, "page")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("version numbers are not reused after delete", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "page", Source: "v1"}))
		require.NoError(t, s.Save(ctx, &StoredTemplate{Name: "page", Source: "v2"}))
		require.NoError(t, s.DeleteVersion(ctx, "page", 1))

		next := &StoredTemplate{Name: "page", Source: "v3"}
		require.NoError(t, s.Save(ctx, next))
		assert.Equal(t, 3, next.Version)
	})

	t.Run("list", func(t *testing.T) {
		s := newStorage(t)
		seed := []*StoredTemplate{
			{Name: "email-welcome", Source: "a", Ruleset: RulesetNameHTML, Tags: []string{"email", "public"}, CreatedBy: "ana"},
			{Name: "email-reset", Source: "b", Ruleset: RulesetNameHTML, Tags: []string{"email"}, CreatedBy: "bo"},
			{Name: "feed", Source: "<rss></rss>", Ruleset: RulesetNameXML, Tags: []string{"public"}, CreatedBy: "ana"},
			{Name: "feed", Source: "<rss><channel/></rss>", Ruleset: RulesetNameXML, Tags: []string{"public"}, CreatedBy: "ana"},
		}
		for _, tmpl := range seed {
			require.NoError(t, s.Save(ctx, tmpl))
		}

		tests := []struct {
			name     string
			query    *TemplateQuery
			expected []string
		}{
			{"nil query", nil, []string{"email-reset", "email-welcome", "feed"}},
			{"name prefix", &TemplateQuery{NamePrefix: "email-"}, []string{"email-reset", "email-welcome"}},
			{"name contains", &TemplateQuery{NameContains: "ee"}, []string{"feed"}},
			{"ruleset", &TemplateQuery{Ruleset: RulesetNameXML}, []string{"feed"}},
			{"created by", &TemplateQuery{CreatedBy: "ana"}, []string{"email-welcome", "feed"}},
			{"all tags", &TemplateQuery{Tags: []string{"email", "public"}}, []string{"email-welcome"}},
			{"all versions", &TemplateQuery{NamePrefix: "feed", IncludeAllVersions: true}, []string{"feed", "feed"}},
			{"limit", &TemplateQuery{Limit: 2}, []string{"email-reset", "email-welcome"}},
			{"offset", &TemplateQuery{Offset: 2}, []string{"feed"}},
			{"offset past end", &TemplateQuery{Offset: 10}, []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				results, err := s.List(ctx, tt.query)
				require.NoError(t, err)

				names := []string{}
				for _, tmpl := range results {
					names = append(names, tmpl.Name)
				}
				assert.Equal(t, tt.expected, names)
			})
		}

		latest, err := s.List(ctx, &TemplateQuery{NamePrefix: "feed"})
		require.NoError(t, err)
		require.Len(t, latest, 1)
		assert.Equal(t, 2, latest[0].Version)
	})

	t.Run("concurrent saves", func(t *testing.T) {
		s := newStorage(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = s.Save(ctx, &StoredTemplate{Name: "busy", Source: fmt.Sprintf("v%d", i)})
			}(i)
		}
		wg.Wait()

		versions, err := s.ListVersions(ctx, "busy")
		require.NoError(t, err)
		assert.Len(t, versions, 10)
		assert.Equal(t, 10, versions[0])
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := newStorage(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.Get(cancelled, "page")
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, s.Save(cancelled, &StoredTemplate{Name: "page"}), context.Canceled)
	})

	t.Run("closed", func(t *testing.T) {
		s := newStorage(t)
		require.NoError(t, s.Close())

		_, err := s.Get(ctx, "page")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgStorageClosed)

		err = s.Save(ctx, &StoredTemplate{Name: "page", Source: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgStorageClosed)
	})
}

func TestStorageRegistry(t *testing.T) {
	drivers := ListStorageDrivers()
	assert.Equal(t, []string{StorageDriverNameFilesystem, StorageDriverNameMemory, StorageDriverNamePostgres}, drivers)

	t.Run("open memory", func(t *testing.T) {
		s, err := OpenStorage(StorageDriverNameMemory, "")
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, s)
		require.NoError(t, s.Close())
	})

	t.Run("open filesystem", func(t *testing.T) {
		s, err := OpenStorage(StorageDriverNameFilesystem, t.TempDir())
		require.NoError(t, err)
		assert.IsType(t, &FilesystemStorage{}, s)
		require.NoError(t, s.Close())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenStorage("redis", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgStorageDriverNotFound)
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		assert.Panics(t, func() {
			RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
		})
	})

	t.Run("nil driver panics", func(t *testing.T) {
		assert.Panics(t, func() {
			RegisterStorageDriver("nil-driver", nil)
		})
	})
}

func TestParseStorageSpec(t *testing.T) {
	tests := []struct {
		spec       string
		driver     string
		connection string
	}{
		{"memory", "memory", ""},
		{"filesystem:/var/templates", "filesystem", "/var/templates"},
		{"postgres:postgres://u:p@db:5432/coyote?sslmode=disable", "postgres", "postgres://u:p@db:5432/coyote?sslmode=disable"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			driver, connection := ParseStorageSpec(tt.spec)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.connection, connection)
		})
	}
}

func TestGenerateTemplateID(t *testing.T) {
	seen := make(map[TemplateID]bool)
	for i := 0; i < 100; i++ {
		id := generateTemplateID()
		assert.True(t, strings.HasPrefix(string(id), TemplateIDPrefix))
		assert.False(t, seen[id])
		seen[id] = true
	}
}

package coyote

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPostgresConfig(t *testing.T) {
	cfg := DefaultPostgresConfig()

	assert.Equal(t, PostgresDefaultMaxOpenConns, cfg.MaxOpenConns)
	assert.Equal(t, PostgresDefaultMaxIdleConns, cfg.MaxIdleConns)
	assert.Equal(t, PostgresDefaultConnMaxLifetime, cfg.ConnMaxLifetime)
	assert.Equal(t, PostgresDefaultConnMaxIdleTime, cfg.ConnMaxIdleTime)
	assert.Equal(t, PostgresTablePrefix, cfg.TablePrefix)
	assert.Equal(t, PostgresDefaultQueryTimeout, cfg.QueryTimeout)
	assert.False(t, cfg.AutoMigrate)
	assert.Empty(t, cfg.ConnectionString)
}

func TestPostgresConfig_WithDefaults(t *testing.T) {
	cfg := PostgresConfig{
		ConnectionString: "postgres://localhost/test?sslmode=disable",
		MaxOpenConns:     3,
		QueryTimeout:     time.Second,
	}.withDefaults()

	assert.Equal(t, 3, cfg.MaxOpenConns)
	assert.Equal(t, time.Second, cfg.QueryTimeout)
	assert.Equal(t, PostgresDefaultMaxIdleConns, cfg.MaxIdleConns)
	assert.Equal(t, PostgresDefaultConnMaxLifetime, cfg.ConnMaxLifetime)
	assert.Equal(t, PostgresTablePrefix, cfg.TablePrefix)
}

func TestPostgresStorage_EmptyConnectionString(t *testing.T) {
	_, err := NewPostgresStorage(PostgresConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPostgresEmptyConnString)

	_, err = OpenStorage(StorageDriverNamePostgres, "")
	require.Error(t, err)
}

func TestPostgresStorage_InvalidConnectionString(t *testing.T) {
	_, err := NewPostgresStorage(PostgresConfig{
		ConnectionString: "invalid://not-a-valid-connection-string",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPostgresConnectionFailed)
}

func TestPostgresStorage_BuildListQuery(t *testing.T) {
	s := &PostgresStorage{config: DefaultPostgresConfig()}

	t.Run("latest versions", func(t *testing.T) {
		query, args := s.buildListQuery(&TemplateQuery{})
		assert.Contains(t, query, "SELECT DISTINCT ON (name)")
		assert.Contains(t, query, "FROM coyote_templates")
		assert.NotContains(t, query, "WHERE")
		assert.Empty(t, args)
	})

	t.Run("filters numbered in order", func(t *testing.T) {
		query, args := s.buildListQuery(&TemplateQuery{
			CreatedBy:          "ana",
			Ruleset:            RulesetNameXML,
			NamePrefix:         "feed_",
			Tags:               []string{"public"},
			IncludeAllVersions: true,
			Limit:              5,
			Offset:             10,
		})

		assert.NotContains(t, query, "DISTINCT ON")
		assert.Contains(t, query, "created_by = $1")
		assert.Contains(t, query, "ruleset = $2")
		assert.Contains(t, query, "name LIKE $3")
		assert.Contains(t, query, "tags @> $4::jsonb")
		assert.True(t, strings.HasSuffix(query, " LIMIT 5 OFFSET 10"))
		assert.Equal(t, []any{"ana", RulesetNameXML, `feed\_%`, `["public"]`}, args)
	})
}

func TestPostgresStorage_TableNames(t *testing.T) {
	s := &PostgresStorage{config: PostgresConfig{TablePrefix: "custom_"}}
	assert.Equal(t, "custom_templates", s.tableName())
	assert.Equal(t, "custom_schema_migrations", s.migrationsTableName())

	migrations := s.migrations()
	require.NotEmpty(t, migrations)
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version)
		assert.Contains(t, m.SQL, "custom_templates")
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "plain", escapeLike("plain"))
	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}

func TestNullString(t *testing.T) {
	ns := nullString("")
	assert.False(t, ns.Valid)

	ns = nullString("hello")
	assert.True(t, ns.Valid)
	assert.Equal(t, "hello", ns.String)
}

package coyote

import (
	"errors"
	"strings"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesetByName(t *testing.T) {
	tests := []struct {
		name         string
		expectedType Ruleset
		namespace    string
	}{
		{RulesetNameHTML, &HTMLRules{}, "html"},
		{RulesetNameClient, &ClientHTMLRules{}, "html"},
		{RulesetNameXML, &XMLRules{}, "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := DefaultParams(tt.name)
			require.NoError(t, err)

			rules, err := RulesetByName(tt.name, params)
			require.NoError(t, err)
			assert.IsType(t, tt.expectedType, rules)
			assert.Equal(t, tt.namespace, rules.InitialNamespace())
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := RulesetByName("svg", DefaultHTMLParams())
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnknownRuleset)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		name, ok := customErr.GetMetadata(MetaKeyRuleset)
		assert.True(t, ok)
		assert.Equal(t, "svg", name)

		_, err = DefaultParams("svg")
		require.Error(t, err)
	})
}

func TestDefaultParams(t *testing.T) {
	html := DefaultHTMLParams()
	assert.True(t, html.RespectIndentation)
	assert.Equal(t, DefaultCacheMemoryLimit, html.CacheMemoryLimit)
	assert.Equal(t, DefaultDocumentMemoryLimit, html.DocumentMemoryLimit)

	assert.False(t, DefaultClientHTMLParams().RespectIndentation)
	assert.False(t, DefaultXMLParams().RespectIndentation)
	assert.Equal(t, "xml", DefaultXMLParams().InitialNamespace)
}

func TestLoadParams(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func() DocumentParams
	}{
		{
			name:     "empty document keeps base",
			input:    "",
			expected: DefaultHTMLParams,
		},
		{
			name:  "partial override",
			input: "respect_indentation: false\ndocument_memory_limit: 1024\n",
			expected: func() DocumentParams {
				p := DefaultHTMLParams()
				p.RespectIndentation = false
				p.DocumentMemoryLimit = 1024
				return p
			},
		},
		{
			name:  "namespace override",
			input: "initial_namespace: svg\n",
			expected: func() DocumentParams {
				p := DefaultHTMLParams()
				p.InitialNamespace = "svg"
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := LoadParams(strings.NewReader(tt.input), DefaultHTMLParams())
			require.NoError(t, err)
			assert.Equal(t, tt.expected(), params)
		})
	}

	t.Run("invalid value", func(t *testing.T) {
		params, err := LoadParams(strings.NewReader("document_memory_limit: lots\n"), DefaultHTMLParams())
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgLoadParams)
		assert.Equal(t, DefaultHTMLParams(), params)
	})
}

func TestLoadParams_AppliedToDocument(t *testing.T) {
	params, err := LoadParams(strings.NewReader("respect_indentation: false\n"), DefaultHTMLParams())
	require.NoError(t, err)

	rules, err := RulesetByName(RulesetNameHTML, params)
	require.NoError(t, err)

	out, err := MustNew(rules).RenderTemplate("<section>\n\t\t\t<p>hai</p>\n\t\t</section>")
	require.NoError(t, err)
	assert.NotContains(t, out, "\t")
}

package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBasicInterpolation(t *testing.T) {
	ts := NewTemplateService()

	out, err := ts.Render("", "Hello {{ name }}", map[string]interface{}{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada", out)
}

func TestRenderCachesParsedTemplates(t *testing.T) {
	ts := NewTemplateService()

	first, err := ts.Render("k1", "Hi {{ name }}", map[string]interface{}{"name": "A"})
	require.NoError(t, err)
	assert.Equal(t, "Hi A", first)

	// Same key, different context: the cached compiled template is reused.
	second, err := ts.Render("k1", "IGNORED", map[string]interface{}{"name": "B"})
	require.NoError(t, err)
	assert.Equal(t, "Hi B", second)
}

func TestRenderParseErrorReturnsRawTemplate(t *testing.T) {
	ts := NewTemplateService()

	broken := "Hello {% if %}"
	out, err := ts.Render("", broken, map[string]interface{}{})
	assert.Error(t, err)
	assert.Equal(t, broken, out)
}

func TestCurrencyFilter(t *testing.T) {
	ts := NewTemplateService()

	tests := []struct {
		name string
		ctx  map[string]interface{}
		want string
	}{
		{"float", map[string]interface{}{"v": 120.0}, "$120.00"},
		{"fractional", map[string]interface{}{"v": 99.5}, "$99.50"},
		{"int", map[string]interface{}{"v": 7}, "$7.00"},
		{"numeric string", map[string]interface{}{"v": "42.1"}, "$42.10"},
		{"non-numeric string", map[string]interface{}{"v": "n/a"}, "n/a"},
		{"zero", map[string]interface{}{"v": 0.0}, "$0.00"},
		{"negative", map[string]interface{}{"v": -10.0}, "$-10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ts.Render("", "{{ v | currency }}", tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestTenurePhraseFilter(t *testing.T) {
	ts := NewTemplateService()

	tests := []struct {
		name string
		v    interface{}
		want string
	}{
		{"zero months", 0, "a new customer"},
		{"one month", 1, "1 month"},
		{"under two years", 18, "18 months"},
		{"two years", 24, "2 years"},
		{"one year exactly via months", 23, "23 months"},
		{"string months", "36", "3 years"},
		{"non-numeric", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ts.Render("", "{{ v | tenure_phrase }}", map[string]interface{}{"v": tt.v})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCapitalizeFilter(t *testing.T) {
	ts := NewTemplateService()

	out, err := ts.Render("", "{{ v | capitalize }}", map[string]interface{}{"v": "timely_payer"})
	require.NoError(t, err)
	assert.Equal(t, "Timely_payer", out)
}

func TestDefaultFilter(t *testing.T) {
	ts := NewTemplateService()

	out, err := ts.Render("", `{{ v | default: "fallback" }}`, map[string]interface{}{"v": ""})
	require.NoError(t, err)
	assert.Equal(t, "fallback", out)

	out, err = ts.Render("", `{{ v | default: "fallback" }}`, map[string]interface{}{"v": "set"})
	require.NoError(t, err)
	assert.Equal(t, "set", out)
}

package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapResolver is a store-free Resolver for expansion tests.
type mapResolver map[string]string

func (m mapResolver) Resolve(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func TestPrepare_Expansion(t *testing.T) {
	t.Run("quoted date range", func(t *testing.T) {
		r := mapResolver{
			"start_date":  "2024-01-01",
			"end_date":    "2024-12-31",
			"user_status": "active",
		}
		in := "SELECT * FROM u WHERE c BETWEEN '{{start_date}}' AND '{{end_date}}' AND status = '{{user_status}}';"
		res := Prepare(in, r)
		require.True(t, res.OK())
		assert.Equal(t,
			"SELECT * FROM u WHERE c BETWEEN '2024-01-01' AND '2024-12-31' AND status = 'active';",
			res.Text)
	})

	t.Run("unquoted numbers", func(t *testing.T) {
		r := mapResolver{"page_size": "50", "page_offset": "100"}
		res := Prepare("LIMIT {{page_size}} OFFSET {{page_offset}};", r)
		require.True(t, res.OK())
		assert.Equal(t, "LIMIT 50 OFFSET 100;", res.Text)
	})

	t.Run("text without placeholders is identity", func(t *testing.T) {
		in := "SELECT 1; -- {{ not a placeholder }}"
		res := Prepare(in, mapResolver{})
		require.True(t, res.OK())
		assert.Equal(t, in, res.Text)
	})

	t.Run("empty value substitutes to nothing", func(t *testing.T) {
		res := Prepare("a{{x}}b", mapResolver{"x": ""})
		require.True(t, res.OK())
		assert.Equal(t, "ab", res.Text)
	})

	t.Run("output length is input plus value deltas", func(t *testing.T) {
		r := mapResolver{"a": "12345", "b": ""}
		in := "x {{a}} y {{b}} z"
		res := Prepare(in, r)
		require.True(t, res.OK())
		want := len(in) + (len("12345") - len("{{a}}")) + (0 - len("{{b}}"))
		assert.Equal(t, want, len(res.Text))
	})

	t.Run("values are raw text, unicode preserved", func(t *testing.T) {
		r := mapResolver{"who": "O'Brien 🚀\nsecond line"}
		res := Prepare("name = '{{who}}'", r)
		require.True(t, res.OK())
		assert.Equal(t, "name = 'O'Brien 🚀\nsecond line'", res.Text)
	})

	t.Run("single pass, values are never rescanned", func(t *testing.T) {
		r := mapResolver{"outer": "{{inner}}", "inner": "boom"}
		res := Prepare("{{outer}}", r)
		require.True(t, res.OK())
		assert.Equal(t, "{{inner}}", res.Text)
	})
}

func TestPrepare_MissingReferences(t *testing.T) {
	t.Run("missing name with occurrence offsets", func(t *testing.T) {
		res := Prepare("WHERE user_id = {{undefined_var}};", mapResolver{"user_id": "42"})
		require.False(t, res.OK())
		assert.Equal(t, []string{"undefined_var"}, res.Missing)
		require.Len(t, res.Occurrences, 1)
		assert.Equal(t, Occurrence{Name: "undefined_var", Start: 16, End: 33}, res.Occurrences[0])
		assert.Empty(t, res.Text)
	})

	t.Run("missing names deduplicated in first-occurrence order", func(t *testing.T) {
		res := Prepare("{{b}} {{a}} {{b}} {{c}}", mapResolver{"c": "ok"})
		require.False(t, res.OK())
		assert.Equal(t, []string{"b", "a"}, res.Missing)
		require.Len(t, res.Occurrences, 3)
	})

	t.Run("any missing reference blocks expansion", func(t *testing.T) {
		res := Prepare("{{known}} {{unknown}}", mapResolver{"known": "v"})
		require.False(t, res.OK())
		assert.Equal(t, []string{"unknown"}, res.Missing)
	})
}

func TestValidate(t *testing.T) {
	r := mapResolver{"a": "1"}
	assert.Nil(t, Validate("{{a}}", r))
	assert.Equal(t, []string{"b"}, Validate("{{a}} {{b}}", r))
}

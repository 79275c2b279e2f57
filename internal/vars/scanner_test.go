package vars

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_Basic(t *testing.T) {
	t.Run("single placeholder", func(t *testing.T) {
		occs := Scan("SELECT {{limit}}")
		require.Len(t, occs, 1)
		assert.Equal(t, Occurrence{Name: "limit", Start: 7, End: 16}, occs[0])
	})

	t.Run("offsets match the literal token", func(t *testing.T) {
		text := "WHERE user_id = {{undefined_var}};"
		occs := Scan(text)
		require.Len(t, occs, 1)
		assert.Equal(t, 16, occs[0].Start)
		assert.Equal(t, 33, occs[0].End)
		assert.Equal(t, "{{undefined_var}}", text[occs[0].Start:occs[0].End])
	})

	t.Run("multiple placeholders in order", func(t *testing.T) {
		occs := Scan("LIMIT {{page_size}} OFFSET {{page_offset}};")
		want := []Occurrence{
			{Name: "page_size", Start: 6, End: 19},
			{Name: "page_offset", Start: 27, End: 42},
		}
		if diff := cmp.Diff(want, occs); diff != "" {
			t.Errorf("occurrences mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no placeholders", func(t *testing.T) {
		assert.Empty(t, Scan("SELECT * FROM users"))
		assert.Empty(t, Scan(""))
	})
}

func TestScan_Rejections(t *testing.T) {
	t.Run("whitespace inside braces is not a placeholder", func(t *testing.T) {
		occs := Scan("not a {{ space }} and {{valid}}")
		require.Len(t, occs, 1)
		assert.Equal(t, "valid", occs[0].Name)
	})

	t.Run("name must start with a letter or underscore", func(t *testing.T) {
		assert.Empty(t, Scan("{{1bad}}"))
		assert.Empty(t, Scan("{{-x}}"))
		require.Len(t, Scan("{{_ok}}"), 1)
	})

	t.Run("unclosed braces are ignored", func(t *testing.T) {
		assert.Empty(t, Scan("{{dangling"))
		assert.Empty(t, Scan("{{dangling} no close"))
	})

	t.Run("closing braces beyond the window are ignored", func(t *testing.T) {
		long := "{{" + strings.Repeat("a", 300) + "}}"
		assert.Empty(t, Scan(long))

		within := "{{" + strings.Repeat("a", 100) + "}}"
		require.Len(t, Scan(within), 1)
	})

	t.Run("inside SQL string literals still matches", func(t *testing.T) {
		occs := Scan("WHERE d = '{{start_date}}'")
		require.Len(t, occs, 1)
		assert.Equal(t, "start_date", occs[0].Name)
	})
}

func TestScan_NonOverlap(t *testing.T) {
	t.Run("occurrences are disjoint and ordered", func(t *testing.T) {
		occs := Scan("{{a}}{{b}}{{c}}")
		require.Len(t, occs, 3)
		for i := 1; i < len(occs); i++ {
			assert.GreaterOrEqual(t, occs[i].Start, occs[i-1].End)
		}
	})

	t.Run("extra brace shifts the match", func(t *testing.T) {
		occs := Scan("{{{name}}")
		require.Len(t, occs, 1)
		assert.Equal(t, Occurrence{Name: "name", Start: 1, End: 9}, occs[0])
	})

	t.Run("nested-looking input matches the inner token", func(t *testing.T) {
		occs := Scan("{{outer{{inner}}")
		require.Len(t, occs, 1)
		assert.Equal(t, "inner", occs[0].Name)
	})
}

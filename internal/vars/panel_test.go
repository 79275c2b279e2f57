package vars

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClipboard records writes; optionally fails.
type fakeClipboard struct {
	texts []string
	err   error
}

func (f *fakeClipboard) WriteText(text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func TestPanel_Add(t *testing.T) {
	t.Run("creates a variable", func(t *testing.T) {
		store := NewStore(nil)
		panel := NewPanel(store, nil)
		require.NoError(t, panel.Add("start_date", "2024-01-01"))
		v, ok := store.Get("start_date")
		require.True(t, ok)
		assert.Equal(t, "2024-01-01", v.Value)
	})

	t.Run("rejects duplicates with NameConflict", func(t *testing.T) {
		store := NewStore(nil)
		panel := NewPanel(store, nil)
		require.NoError(t, panel.Add("a", "1"))
		assert.ErrorIs(t, panel.Add("a", "2"), ErrNameConflict)
		v, _ := store.Get("a")
		assert.Equal(t, "1", v.Value, "conflicting add must not overwrite")
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		panel := NewPanel(NewStore(nil), nil)
		var invalidName *InvalidNameError
		assert.ErrorAs(t, panel.Add("not valid", "x"), &invalidName)
	})

	t.Run("strips a pasted placeholder wrapper", func(t *testing.T) {
		store := NewStore(nil)
		panel := NewPanel(store, nil)
		require.NoError(t, panel.Add("{{user_id}}", "42"))
		_, ok := store.Get("user_id")
		assert.True(t, ok)
	})
}

func TestPanel_Edit(t *testing.T) {
	store := NewStore(nil)
	panel := NewPanel(store, nil)
	require.NoError(t, panel.Add("a", "1"))

	require.NoError(t, panel.Edit("a", "2"))
	v, _ := store.Get("a")
	assert.Equal(t, "2", v.Value)

	assert.ErrorIs(t, panel.Edit("ghost", "x"), ErrNotFound)
}

func TestPanel_Delete(t *testing.T) {
	t.Run("confirmed delete removes", func(t *testing.T) {
		store := NewStore(nil)
		panel := NewPanel(store, nil)
		require.NoError(t, panel.Add("a", "1"))

		removed, err := panel.Delete("a", func() bool { return true })
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Zero(t, store.Len())
	})

	t.Run("declined delete keeps the variable", func(t *testing.T) {
		store := NewStore(nil)
		panel := NewPanel(store, nil)
		require.NoError(t, panel.Add("a", "1"))

		removed, err := panel.Delete("a", func() bool { return false })
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("unknown name", func(t *testing.T) {
		panel := NewPanel(NewStore(nil), nil)
		_, err := panel.Delete("ghost", func() bool { return true })
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPanel_Clear(t *testing.T) {
	store := NewStore(nil)
	panel := NewPanel(store, nil)
	require.NoError(t, panel.Add("a", "1"))
	require.NoError(t, panel.Add("b", "2"))

	t.Run("declined", func(t *testing.T) {
		n, err := panel.Clear(func() bool { return false })
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("confirmed", func(t *testing.T) {
		n, err := panel.Clear(func() bool { return true })
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Zero(t, store.Len())
	})
}

func TestPanel_Copy(t *testing.T) {
	store := NewStore(nil)
	clip := &fakeClipboard{}
	panel := NewPanel(store, clip)
	require.NoError(t, panel.Add("start_date", "2024-01-01"))

	t.Run("copy value", func(t *testing.T) {
		require.NoError(t, panel.CopyValue("start_date"))
		assert.Equal(t, "2024-01-01", clip.texts[len(clip.texts)-1])
	})

	t.Run("copy placeholder token", func(t *testing.T) {
		require.NoError(t, panel.CopyPlaceholder("start_date"))
		assert.Equal(t, "{{start_date}}", clip.texts[len(clip.texts)-1])
	})

	t.Run("unknown name", func(t *testing.T) {
		assert.ErrorIs(t, panel.CopyValue("ghost"), ErrNotFound)
		assert.ErrorIs(t, panel.CopyPlaceholder("ghost"), ErrNotFound)
	})

	t.Run("clipboard failure surfaces", func(t *testing.T) {
		failing := NewPanel(store, &fakeClipboard{err: errors.New("no display")})
		assert.Error(t, failing.CopyValue("start_date"))
	})
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"plain":        "plain",
		"  padded  ":   "padded",
		"{{wrapped}}":  "wrapped",
		"{{ spaced }}": "spaced",
		"{{}}":         "",
		"{{":           "{{",
		"{{incomplete": "{{incomplete",
		"{{a}}{{b}}":   "a}}{{b",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}

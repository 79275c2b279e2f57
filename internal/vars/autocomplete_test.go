package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeWith(t *testing.T, names ...string) *Store {
	t.Helper()
	store := NewStore(nil)
	for _, name := range names {
		require.NoError(t, store.Put(name, "value-of-"+name))
	}
	return store
}

func TestAutocomplete_Trigger(t *testing.T) {
	t.Run("opens on double brace with all names sorted", func(t *testing.T) {
		ac := NewAutocomplete(storeWith(t, "beta", "alpha"), nil, nil)
		defer ac.Close()

		view := ac.OnTextChanged("SELECT {{", 9)
		require.NotNil(t, view)
		assert.True(t, ac.Active())
		assert.Equal(t, []string{"alpha", "beta"}, view.Candidates)
		assert.Equal(t, 0, view.Selected)
		assert.Equal(t, "", view.Prefix)
	})

	t.Run("single brace does not trigger", func(t *testing.T) {
		ac := NewAutocomplete(storeWith(t, "a"), nil, nil)
		defer ac.Close()
		assert.Nil(t, ac.OnTextChanged("SELECT {", 8))
	})

	t.Run("empty store keeps the popup open", func(t *testing.T) {
		ac := NewAutocomplete(storeWith(t), nil, nil)
		defer ac.Close()

		view := ac.OnTextChanged("{{", 2)
		require.NotNil(t, view)
		assert.Empty(t, view.Candidates)
		assert.Equal(t, -1, view.Selected)
	})
}

func TestAutocomplete_Filtering(t *testing.T) {
	t.Run("case-insensitive prefix filter", func(t *testing.T) {
		ac := NewAutocomplete(storeWith(t, "alpha", "beta", "bravo", "Brim"), nil, nil)
		defer ac.Close()

		ac.OnTextChanged("{{", 2)
		view := ac.OnTextChanged("{{b", 3)
		require.NotNil(t, view)
		assert.Equal(t, []string{"Brim", "beta", "bravo"}, view.Candidates)
		assert.Equal(t, 0, view.Selected)
		assert.Equal(t, "b", view.Prefix)

		view = ac.OnTextChanged("{{br", 4)
		require.NotNil(t, view)
		assert.Equal(t, []string{"Brim", "bravo"}, view.Candidates)
	})

	t.Run("no matches keeps popup open and empty", func(t *testing.T) {
		ac := NewAutocomplete(storeWith(t, "alpha"), nil, nil)
		defer ac.Close()

		ac.OnTextChanged("{{", 2)
		view := ac.OnTextChanged("{{zz", 4)
		require.NotNil(t, view)
		assert.Empty(t, view.Candidates)
		assert.Equal(t, -1, view.Selected)
	})

	t.Run("invalid name character closes silently", func(t *testing.T) {
		ac := NewAutocomplete(storeWith(t, "alpha"), nil, nil)
		defer ac.Close()

		ac.OnTextChanged("{{", 2)
		assert.Nil(t, ac.OnTextChanged("{{a-", 4))
		assert.False(t, ac.Active())
	})

	t.Run("caret leaving the span closes silently", func(t *testing.T) {
		ac := NewAutocomplete(storeWith(t, "alpha"), nil, nil)
		defer ac.Close()

		ac.OnTextChanged("x {{", 4)
		require.True(t, ac.Active())
		assert.Nil(t, ac.OnTextChanged("x {{", 1))
		assert.False(t, ac.Active())
	})

	t.Run("deleting the braces closes silently", func(t *testing.T) {
		ac := NewAutocomplete(storeWith(t, "alpha"), nil, nil)
		defer ac.Close()

		ac.OnTextChanged("{{", 2)
		assert.Nil(t, ac.OnTextChanged("{", 1))
		assert.False(t, ac.Active())
	})
}

func TestAutocomplete_SelectionAndCommit(t *testing.T) {
	t.Run("arrow keys move with wrap-around, tab commits", func(t *testing.T) {
		var applied []Edit
		ac := NewAutocomplete(storeWith(t, "alpha", "beta", "bravo"), nil, func(e Edit) {
			applied = append(applied, e)
		})
		defer ac.Close()

		ac.OnTextChanged("SELECT {{", 9)
		view := ac.OnTextChanged("SELECT {{b", 10)
		require.Equal(t, []string{"beta", "bravo"}, view.Candidates)
		require.Equal(t, 0, view.Selected)

		assert.Equal(t, Consumed, ac.OnKey(KeyArrowDown))
		assert.Equal(t, 1, ac.CurrentView().Selected)

		assert.Equal(t, Consumed, ac.OnKey(KeyArrowDown))
		assert.Equal(t, 0, ac.CurrentView().Selected, "selection wraps")

		assert.Equal(t, Consumed, ac.OnKey(KeyArrowUp))
		assert.Equal(t, 1, ac.CurrentView().Selected)

		assert.Equal(t, Consumed, ac.OnKey(KeyTab))
		require.Len(t, applied, 1)
		assert.Equal(t, "SELECT {{bravo}}", applied[0].Text)
		assert.Equal(t, len("SELECT {{bravo}}"), applied[0].Caret)
		assert.False(t, ac.Active())

		text, caret, ok := ac.LastCommit()
		require.True(t, ok)
		assert.Equal(t, "SELECT {{bravo}}", text)
		assert.Equal(t, len("SELECT {{bravo}}"), caret)
		_, _, ok = ac.LastCommit()
		assert.False(t, ok, "LastCommit clears on read")
	})

	t.Run("enter commits mid-text and keeps the tail", func(t *testing.T) {
		var applied []Edit
		ac := NewAutocomplete(storeWith(t, "user_id"), nil, func(e Edit) {
			applied = append(applied, e)
		})
		defer ac.Close()

		ac.OnTextChanged("WHERE id = {{ AND 1=1", 13)
		ac.OnTextChanged("WHERE id = {{u AND 1=1", 14)
		require.True(t, ac.Active())
		assert.Equal(t, Consumed, ac.OnKey(KeyEnter))
		require.Len(t, applied, 1)
		assert.Equal(t, "WHERE id = {{user_id}} AND 1=1", applied[0].Text)
		assert.Equal(t, len("WHERE id = {{user_id}}"), applied[0].Caret)
	})

	t.Run("escape preserves typed text", func(t *testing.T) {
		ac := NewAutocomplete(storeWith(t, "alpha"), nil, func(Edit) {
			t.Fatal("escape must not apply an edit")
		})
		defer ac.Close()

		ac.OnTextChanged("{{", 2)
		ac.OnTextChanged("{{al", 4)
		require.True(t, ac.Active())
		assert.Equal(t, Consumed, ac.OnKey(KeyEscape))
		assert.False(t, ac.Active())
	})

	t.Run("keys pass through when idle", func(t *testing.T) {
		ac := NewAutocomplete(storeWith(t, "alpha"), nil, nil)
		defer ac.Close()
		assert.Equal(t, Passthrough, ac.OnKey(KeyTab))
		assert.Equal(t, Passthrough, ac.OnKey(KeyArrowDown))
	})

	t.Run("unhandled keys pass through while active", func(t *testing.T) {
		ac := NewAutocomplete(storeWith(t, "alpha"), nil, nil)
		defer ac.Close()
		ac.OnTextChanged("{{", 2)
		assert.Equal(t, Passthrough, ac.OnKey("x"))
	})
}

func TestAutocomplete_StoreChanges(t *testing.T) {
	t.Run("candidates refresh while active", func(t *testing.T) {
		store := storeWith(t, "alpha")
		var views []*View
		ac := NewAutocomplete(store, func(v *View) { views = append(views, v) }, nil)
		defer ac.Close()

		view := ac.OnTextChanged("{{", 2)
		require.Equal(t, []string{"alpha"}, view.Candidates)

		require.NoError(t, store.Put("beta", "v"))
		current := ac.CurrentView()
		require.NotNil(t, current)
		assert.Equal(t, []string{"alpha", "beta"}, current.Candidates)
		require.NotEmpty(t, views)
		assert.Equal(t, []string{"alpha", "beta"}, views[len(views)-1].Candidates)
	})

	t.Run("changes while idle do not open the popup", func(t *testing.T) {
		store := storeWith(t)
		ac := NewAutocomplete(store, nil, nil)
		defer ac.Close()
		require.NoError(t, store.Put("a", "1"))
		assert.False(t, ac.Active())
	})
}

func TestAutocomplete_FullScenario(t *testing.T) {
	// Type {{b over a store of [alpha beta bravo], arrow down, Tab.
	store := storeWith(t, "alpha", "beta", "bravo")
	var final Edit
	ac := NewAutocomplete(store, nil, func(e Edit) { final = e })
	defer ac.Close()

	ac.OnTextChanged("{{", 2)
	view := ac.OnTextChanged("{{b", 3)
	require.Equal(t, []string{"beta", "bravo"}, view.Candidates)
	require.Equal(t, 0, view.Selected)

	ac.OnKey(KeyArrowDown)
	ac.OnKey(KeyTab)

	assert.Equal(t, "{{bravo}}", final.Text)
	assert.Equal(t, len("{{bravo}}"), final.Caret)
}

package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRewriter(t *testing.T, search, replace string, opts SearchOptions) *Rewriter {
	t.Helper()
	r, err := NewRewriter(search, replace, opts)
	require.NoError(t, err)
	return r
}

func TestNewRewriter(t *testing.T) {
	t.Run("empty search pattern", func(t *testing.T) {
		_, err := NewRewriter("", "x", SearchOptions{})
		assert.ErrorIs(t, err, ErrEmptySearchPattern)
	})

	t.Run("invalid regex", func(t *testing.T) {
		_, err := NewRewriter("[unclosed", "x", SearchOptions{UseRegex: true})
		assert.ErrorIs(t, err, ErrInvalidSearchPattern)
	})

	t.Run("empty replacement is allowed", func(t *testing.T) {
		r := mustRewriter(t, "remove me", "", SearchOptions{CaseSensitive: true})
		assert.Equal(t, "keep ", r.replaceText("keep remove me"))
	})
}

func TestRewriter_ReplaceText(t *testing.T) {
	t.Run("literal case sensitive", func(t *testing.T) {
		r := mustRewriter(t, "login", "signin", SearchOptions{CaseSensitive: true})
		assert.Equal(t, "Click signin button", r.replaceText("Click login button"))
		assert.Equal(t, "Click Login button", r.replaceText("Click Login button"))
	})

	t.Run("literal case insensitive splices original casing", func(t *testing.T) {
		r := mustRewriter(t, "LOGIN", "signin", SearchOptions{})
		assert.Equal(t, "Click signin Button", r.replaceText("Click Login Button"))
		assert.Equal(t, "signin and signin", r.replaceText("LOGIN and login"))
	})

	t.Run("literal case insensitive keeps multi-byte runes intact", func(t *testing.T) {
		r := mustRewriter(t, "a", "X", SearchOptions{})
		assert.Equal(t, "İX", r.replaceText("İa"))
		assert.Equal(t, "İİX", r.replaceText("İİa"))
		assert.Equal(t, "ẞ X schließen", r.replaceText("ẞ a schließen"))
	})

	t.Run("literal case insensitive treats regex metacharacters literally", func(t *testing.T) {
		r := mustRewriter(t, "step (1)", "step one", SearchOptions{})
		assert.Equal(t, "run step one", r.replaceText("run Step (1)"))
	})

	t.Run("literal scans left to right without overlap", func(t *testing.T) {
		r := mustRewriter(t, "aa", "b", SearchOptions{CaseSensitive: true})
		assert.Equal(t, "bba", r.replaceText("aaaaa"))
	})

	t.Run("regex", func(t *testing.T) {
		r := mustRewriter(t, `step \d+`, "step N", SearchOptions{UseRegex: true, CaseSensitive: true})
		assert.Equal(t, "run step N then step N", r.replaceText("run step 1 then step 22"))
	})

	t.Run("regex case insensitive", func(t *testing.T) {
		r := mustRewriter(t, "login", "signin", SearchOptions{UseRegex: true})
		assert.Equal(t, "signin signin", r.replaceText("LOGIN Login"))
	})

	t.Run("regex replacement is verbatim, not backreference expanded", func(t *testing.T) {
		r := mustRewriter(t, `(\w+)@example.com`, "$1@test.com", SearchOptions{UseRegex: true, CaseSensitive: true})
		assert.Equal(t, "$1@test.com", r.replaceText("alice@example.com"))
	})
}

func TestRewriter_Rewrite(t *testing.T) {
	tree := NewContainer("doc",
		NewContainer("paragraph",
			NewText("Click login button"),
			NewContainer("bulletList",
				NewText("then login again"),
			),
		),
		NewText("no match here"),
	)

	t.Run("structure is preserved", func(t *testing.T) {
		r := mustRewriter(t, "login", "signin", SearchOptions{CaseSensitive: true})
		out, changed := r.Rewrite(tree)
		assert.True(t, changed)

		assert.Equal(t, "doc", out.Type)
		require.Len(t, out.Content, 2)
		para := out.Content[0]
		assert.Equal(t, "paragraph", para.Type)
		require.Len(t, para.Content, 2)
		assert.Equal(t, "Click signin button", para.Content[0].Text)
		assert.Equal(t, "bulletList", para.Content[1].Type)
		assert.Equal(t, "then signin again", para.Content[1].Content[0].Text)
		assert.Equal(t, "no match here", out.Content[1].Text)
	})

	t.Run("input tree is not mutated", func(t *testing.T) {
		r := mustRewriter(t, "login", "signin", SearchOptions{CaseSensitive: true})
		_, _ = r.Rewrite(tree)
		assert.Equal(t, "Click login button", tree.Content[0].Content[0].Text)
	})

	t.Run("unknown leaf shapes pass through", func(t *testing.T) {
		r := mustRewriter(t, "login", "signin", SearchOptions{CaseSensitive: true})
		rule := Node{Type: "horizontalRule"}
		out, changed := r.Rewrite(rule)
		assert.False(t, changed)
		assert.Equal(t, rule, out)
	})
}

func TestRewriter_RewriteBody(t *testing.T) {
	t.Run("concrete scenario", func(t *testing.T) {
		body, err := NewBody(NewContainer("doc", NewText("Click login button")))
		require.NoError(t, err)

		r := mustRewriter(t, "login", "signin", SearchOptions{})
		out, changed := r.RewriteBody(body)
		assert.True(t, changed)

		root, err := out.Parse()
		require.NoError(t, err)
		assert.Equal(t, "Click signin button", root.Content[0].Text)
	})

	t.Run("no match returns the body byte for byte", func(t *testing.T) {
		body := Body(`{"type":"doc","content":[{"type":"text","text":"nothing to see"}]}`)
		r := mustRewriter(t, "login", "signin", SearchOptions{})
		out, changed := r.RewriteBody(body)
		assert.False(t, changed)
		assert.Equal(t, body, out)
	})

	t.Run("malformed body is returned unchanged", func(t *testing.T) {
		body := Body(`not even json`)
		r := mustRewriter(t, "login", "signin", SearchOptions{})
		out, changed := r.RewriteBody(body)
		assert.False(t, changed)
		assert.Equal(t, body, out)
	})

	t.Run("unknown fields survive a rewrite", func(t *testing.T) {
		body := Body(`{"type":"doc","attrs":{"version":2},"content":[{"type":"text","text":"login","marks":[{"type":"bold"}]}]}`)
		r := mustRewriter(t, "login", "signin", SearchOptions{})
		out, changed := r.RewriteBody(body)
		assert.True(t, changed)
		assert.JSONEq(t,
			`{"type":"doc","attrs":{"version":2},"content":[{"type":"text","text":"signin","marks":[{"type":"bold"}]}]}`,
			string(out))
	})
}

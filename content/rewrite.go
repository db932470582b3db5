package content

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptySearchPattern is returned when the search pattern is empty.
	ErrEmptySearchPattern = errors.New("search pattern is required")

	// ErrInvalidSearchPattern is returned when a regex search pattern does not compile.
	ErrInvalidSearchPattern = errors.New("invalid search pattern")
)

// SearchOptions controls how the search pattern is matched against text leaves.
type SearchOptions struct {
	UseRegex      bool `json:"useRegex"`
	CaseSensitive bool `json:"caseSensitive"`
}

// Rewriter applies a search/replace transform to content trees. The tree
// structure is never altered; only the text payload of matching text leaves
// changes. The replacement string is inserted verbatim for every match, in
// both literal and regex mode.
type Rewriter struct {
	search  string
	replace string
	opts    SearchOptions
	pattern *regexp.Regexp
}

// NewRewriter compiles a rewriter for the given search/replace pair. A regex
// pattern that does not compile is rejected here, before any mutation runs.
func NewRewriter(search, replace string, opts SearchOptions) (*Rewriter, error) {
	if search == "" {
		return nil, ErrEmptySearchPattern
	}

	r := &Rewriter{
		search:  search,
		replace: replace,
		opts:    opts,
	}

	switch {
	case opts.UseRegex:
		expr := search
		if !opts.CaseSensitive {
			expr = "(?i)" + expr
		}
		pattern, err := regexp.Compile(expr)
		if err != nil {
			return nil, ErrInvalidSearchPattern
		}
		r.pattern = pattern
	case !opts.CaseSensitive:
		// Literal case-insensitive matching goes through the regexp engine
		// too: its case folding works on runes, so multi-byte text around a
		// match is never spliced mid-rune.
		pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(search))
		if err != nil {
			return nil, ErrInvalidSearchPattern
		}
		r.pattern = pattern
	}

	return r, nil
}

// RewriteBody parses, rewrites and re-serializes a body. A body that does not
// parse as a node tree is returned unchanged, as is a body with no matches,
// so a no-op rewrite is byte-for-byte stable.
func (r *Rewriter) RewriteBody(body Body) (Body, bool) {
	root, err := body.Parse()
	if err != nil {
		return body, false
	}

	rewritten, changed := r.Rewrite(root)
	if !changed {
		return body, false
	}

	out, err := NewBody(rewritten)
	if err != nil {
		return body, false
	}
	return out, true
}

// Rewrite walks the tree depth-first and returns a copy with matching text
// leaves replaced. The second return reports whether any leaf changed.
func (r *Rewriter) Rewrite(node Node) (Node, bool) {
	if node.IsText() {
		replaced := r.replaceText(node.Text)
		if replaced == node.Text {
			return node, false
		}
		node.Text = replaced
		return node, true
	}

	if !node.hasContent {
		// Unknown leaf shape, pass through untouched.
		return node, false
	}

	changed := false
	children := make([]Node, len(node.Content))
	for i, child := range node.Content {
		rewritten, childChanged := r.Rewrite(child)
		children[i] = rewritten
		changed = changed || childChanged
	}
	node.Content = children
	return node, changed
}

func (r *Rewriter) replaceText(text string) string {
	if r.pattern != nil {
		// Verbatim replacement: no backreference expansion.
		return r.pattern.ReplaceAllStringFunc(text, func(string) string {
			return r.replace
		})
	}

	return strings.ReplaceAll(text, r.search, r.replace)
}

package spellcheck

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

func TestLinkTarget(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		filter    string
		corrected string
		want      string
	}{
		{"keys replaced", "/search?keys=speling+test", "keys", "spelling test", "/search?keys=spelling+test"},
		{"filter and pager dropped", "/search?query=speling&page=3&type=article", "query", "spelling", "/search?keys=spelling&type=article"},
		{"escapes reserved characters", "/search", "keys", "a&b c", "/search?keys=a%26b+c"},
		{"literal plus becomes a separator", "/search", "keys", "c+ guide", "/search?keys=c++guide"},
		{"no current url", "", "keys", "spelling", "/?keys=spelling"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var current *url.URL
			query := url.Values{}
			if tt.current != "" {
				u, err := url.Parse(tt.current)
				require.NoError(t, err)
				current = u
				query = u.Query()
			}
			assert.Equal(t, tt.want, linkTarget(current, query, tt.filter, tt.corrected))
		})
	}
}

func TestNewSuggestionLabel(t *testing.T) {
	s := newSuggestion(nil, nil, "keys", "spelling+test", nil)
	assert.Equal(t, "spelling test", s.Label)
	assert.Equal(t, "Did you mean: ", s.Prefix)
	assert.Equal(t, "?", s.Suffix)
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(nil)
	require.NoError(t, err)
	assert.Empty(t, html)

	html, err = RenderHTML(&domain.Suggestion{
		Prefix: "Did you mean: ",
		Label:  "<b>spelling</b>",
		Href:   "/search?keys=spelling",
		Suffix: "?",
	})
	require.NoError(t, err)
	assert.Equal(t,
		`<span>Did you mean: </span><a href="/search?keys=spelling">&lt;b&gt;spelling&lt;/b&gt;</a><span>?</span>`,
		html,
	)
}

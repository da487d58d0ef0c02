package spellcheck

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

const (
	// LinkParam is the query parameter suggestion links carry the corrected text in.
	LinkParam = "keys"

	prefixText = "Did you mean: "
	suffixText = "?"
	pageParam  = "page"
)

var fragmentTemplate = template.Must(template.New("spellcheck").Parse(
	`<span>{{.Prefix}}</span><a href="{{.Href}}">{{.Label}}</a><span>{{.Suffix}}</span>`,
))

// newSuggestion builds the area for corrected text. The link label shows "+"
// as spaces; the link target writes spaces as "+".
func newSuggestion(current *url.URL, query url.Values, filterName, corrected string, corrections []domain.Correction) *domain.Suggestion {
	return &domain.Suggestion{
		Prefix:      prefixText,
		Label:       strings.ReplaceAll(corrected, "+", " "),
		Href:        linkTarget(current, query, filterName, corrected),
		Suffix:      suffixText,
		Corrections: corrections,
	}
}

// linkTarget points at the current page with LinkParam set to corrected.
// Other query parameters survive, except the searched filter itself and the
// pager, which would otherwise keep the old text or an out-of-range page.
func linkTarget(current *url.URL, query url.Values, filterName, corrected string) string {
	path := "/"
	if current != nil && current.EscapedPath() != "" {
		path = current.EscapedPath()
	}

	rest := url.Values{}
	for k, vs := range query {
		if k == LinkParam || k == filterName || k == pageParam {
			continue
		}
		rest[k] = vs
	}

	q := LinkParam + "=" + encodeKeys(corrected)
	if enc := rest.Encode(); enc != "" {
		q += "&" + enc
	}
	return path + "?" + q
}

// encodeKeys writes spaces as "+" and escapes everything else.
func encodeKeys(s string) string {
	parts := strings.Split(strings.ReplaceAll(s, " ", "+"), "+")
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	return strings.Join(parts, "+")
}

// RenderHTML renders the area as an HTML fragment. A nil suggestion renders
// as the empty string.
func RenderHTML(s *domain.Suggestion) (string, error) {
	if s == nil {
		return "", nil
	}
	var b strings.Builder
	if err := fragmentTemplate.Execute(&b, s); err != nil {
		return "", err
	}
	return b.String(), nil
}

package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

// suggesterName names the term suggester inside the request and response.
const suggesterName = "spellcheck"

type esSearchRepository struct {
	client          *elasticsearch.Client
	spellcheckField string
}

// NewESSearchRepository creates a new Elasticsearch-based search repository.
// spellcheckField is the field the term suggester reads.
func NewESSearchRepository(client *elasticsearch.Client, spellcheckField string) SearchRepository {
	return &esSearchRepository{
		client:          client,
		spellcheckField: spellcheckField,
	}
}

func (r *esSearchRepository) Search(ctx context.Context, index string, q *domain.SearchQuery) (*domain.ResultSet, error) {
	data, err := json.Marshal(r.buildBody(q))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(index),
		r.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var result esResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rs := &domain.ResultSet{
		Items: make([]domain.ResultItem, 0, len(result.Hits.Hits)),
		Total: result.Hits.Total.Value,
	}
	for _, hit := range result.Hits.Hits {
		item := domain.ResultItem{ID: hit.ID, Score: hit.Score}
		if len(hit.Source) > 0 {
			if err := json.Unmarshal(hit.Source, &item.Source); err != nil {
				continue
			}
		}
		rs.Items = append(rs.Items, item)
	}

	if q.BoolOption(domain.OptionSpellcheck) {
		payload, err := spellcheckPayload(q.Keys, result.Suggest[suggesterName])
		if err != nil {
			return nil, fmt.Errorf("failed to encode spellcheck payload: %w", err)
		}
		rs.SetExtraData(domain.ExtraDataBackendResponse, payload)
	}

	return rs, nil
}

func (r *esSearchRepository) buildBody(q *domain.SearchQuery) map[string]interface{} {
	body := map[string]interface{}{
		"from": q.Offset,
		"size": q.Limit,
	}
	if q.Keys == "" {
		body["query"] = map[string]interface{}{"match_all": map[string]interface{}{}}
		return body
	}

	match := map[string]interface{}{"query": q.Keys}
	if len(q.Fields) > 0 {
		match["fields"] = q.Fields
	}
	body["query"] = map[string]interface{}{"multi_match": match}

	if q.BoolOption(domain.OptionSpellcheck) {
		body["suggest"] = map[string]interface{}{
			"text": q.Keys,
			suggesterName: map[string]interface{}{
				"term": map[string]interface{}{
					"field":        r.spellcheckField,
					"suggest_mode": "missing",
				},
			},
		}
	}
	return body
}

// spellcheckPayload converts term suggester entries into the spellcheck
// payload: {"spellcheck":{"suggestions":[token, info, token, info, ...]}}.
// Tokens without options are left out. Each token is the span of text the
// suggester read, not its analyzed form, so it matches the submitted input.
func spellcheckPayload(text string, entries []esSuggestEntry) (json.RawMessage, error) {
	runes := []rune(text)
	suggestions := make([]interface{}, 0, 2*len(entries))
	for _, e := range entries {
		if len(e.Options) == 0 {
			continue
		}
		words := make([]spellcheckWord, 0, len(e.Options))
		for _, o := range e.Options {
			words = append(words, spellcheckWord{Word: o.Text, Freq: o.Freq})
		}
		suggestions = append(suggestions, originalToken(runes, e), spellcheckInfo{
			NumFound:    len(words),
			StartOffset: e.Offset,
			EndOffset:   e.Offset + e.Length,
			Suggestion:  words,
		})
	}

	var p spellcheckDocument
	p.Spellcheck.Suggestions = suggestions
	return json.Marshal(p)
}

// originalToken returns the input span an entry covers, or the analyzed
// token when the offsets fall outside the input.
func originalToken(text []rune, e esSuggestEntry) string {
	start, end := e.Offset, e.Offset+e.Length
	if e.Length <= 0 || start < 0 || end > len(text) {
		return e.Text
	}
	return string(text[start:end])
}

type spellcheckDocument struct {
	Spellcheck struct {
		Suggestions []interface{} `json:"suggestions"`
	} `json:"spellcheck"`
}

type spellcheckInfo struct {
	NumFound    int              `json:"numFound"`
	StartOffset int              `json:"startOffset"`
	EndOffset   int              `json:"endOffset"`
	Suggestion  []spellcheckWord `json:"suggestion"`
}

type spellcheckWord struct {
	Word string `json:"word"`
	Freq int    `json:"freq"`
}

// esResponse is the Elasticsearch search response structure.
type esResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  float64         `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Suggest map[string][]esSuggestEntry `json:"suggest"`
}

type esSuggestEntry struct {
	Text    string `json:"text"`
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
	Options []struct {
		Text  string  `json:"text"`
		Score float64 `json:"score"`
		Freq  int     `json:"freq"`
	} `json:"options"`
}

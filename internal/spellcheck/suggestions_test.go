package spellcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

func TestExtractCorrections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []domain.Correction
	}{
		{
			name:    "string candidates",
			payload: `{"spellcheck":{"suggestions":["speling",{"numFound":2,"suggestion":["spelling","spieling"]}]}}`,
			want:    []domain.Correction{{Misspelling: "speling", Suggestion: "spelling"}},
		},
		{
			name:    "extended candidates",
			payload: `{"spellcheck":{"suggestions":["speling",{"suggestion":[{"word":"spelling","freq":12}]},"tset",{"suggestion":[{"word":"test","freq":40}]}]}}`,
			want: []domain.Correction{
				{Misspelling: "speling", Suggestion: "spelling"},
				{Misspelling: "tset", Suggestion: "test"},
			},
		},
		{
			name:    "empty suggestion list",
			payload: `{"spellcheck":{"suggestions":[]}}`,
			want:    nil,
		},
		{
			name:    "token is last element",
			payload: `{"spellcheck":{"suggestions":["speling",{"suggestion":["spelling"]},"dangling"]}}`,
			want:    []domain.Correction{{Misspelling: "speling", Suggestion: "spelling"}},
		},
		{
			name:    "token without candidates",
			payload: `{"spellcheck":{"suggestions":["speling",{"numFound":0,"suggestion":[]}]}}`,
			want:    nil,
		},
		{
			name:    "collation entries are ignored",
			payload: `{"spellcheck":{"suggestions":["speling",{"suggestion":["spelling"]},"correctlySpelled",false,"collation","spelling test"]}}`,
			want:    []domain.Correction{{Misspelling: "speling", Suggestion: "spelling"}},
		},
		{
			name:    "no spellcheck section",
			payload: `{"responseHeader":{"status":0}}`,
			want:    nil,
		},
		{
			name:    "not json",
			payload: `garbage`,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCorrections([]byte(tt.payload)))
		})
	}
}

func TestApplyCorrections(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		corrections []domain.Correction
		want        string
	}{
		{
			name:        "single word",
			text:        "speling test",
			corrections: []domain.Correction{{Misspelling: "speling", Suggestion: "spelling"}},
			want:        "spelling test",
		},
		{
			name:        "every occurrence",
			text:        "speling speling",
			corrections: []domain.Correction{{Misspelling: "speling", Suggestion: "spelling"}},
			want:        "spelling spelling",
		},
		{
			name: "later replacement sees earlier output",
			text: "teh cat",
			corrections: []domain.Correction{
				{Misspelling: "teh", Suggestion: "the"},
				{Misspelling: "he", Suggestion: "she"},
			},
			want: "tshe cat",
		},
		{
			name:        "empty misspelling ignored",
			text:        "abc",
			corrections: []domain.Correction{{Misspelling: "", Suggestion: "x"}},
			want:        "abc",
		},
		{
			name:        "no match",
			text:        "Speling",
			corrections: []domain.Correction{{Misspelling: "speling", Suggestion: "spelling"}},
			want:        "Speling",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyCorrections(tt.text, tt.corrections))
		})
	}
}

package spellcheck

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

const suggestionsPath = "spellcheck.suggestions"

// ExtractCorrections walks the payload's alternating suggestion list. A
// string at position k is a misspelled token and the entry at k+1 holds its
// candidates; the first candidate is the correction. Candidates are either
// plain strings or objects with a "word" field.
//
// Tokens without a usable candidate list (last element, non-object entry,
// empty list, empty word) are skipped.
func ExtractCorrections(payload []byte) []domain.Correction {
	suggestions := gjson.GetBytes(payload, suggestionsPath)
	if !suggestions.IsArray() {
		return nil
	}

	entries := suggestions.Array()
	var out []domain.Correction
	for k, entry := range entries {
		if entry.Type != gjson.String {
			continue
		}
		if k+1 >= len(entries) {
			continue
		}
		word := firstCandidate(entries[k+1])
		if word == "" {
			continue
		}
		out = append(out, domain.Correction{
			Misspelling: entry.String(),
			Suggestion:  word,
		})
	}
	return out
}

func firstCandidate(holder gjson.Result) string {
	if !holder.IsObject() {
		return ""
	}
	first := holder.Get("suggestion.0")
	switch {
	case first.Type == gjson.String:
		return first.String()
	case first.IsObject():
		return first.Get("word").String()
	default:
		return ""
	}
}

// ApplyCorrections replaces every occurrence of each misspelling with its
// suggestion, in order. Later replacements see the output of earlier ones.
func ApplyCorrections(text string, corrections []domain.Correction) string {
	for _, c := range corrections {
		if c.Misspelling == "" {
			continue
		}
		text = strings.ReplaceAll(text, c.Misspelling, c.Suggestion)
	}
	return text
}

package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

// errNotObject is returned when the reply is valid JSON but not an object.
var errNotObject = errors.New("reply is not a JSON object")

// fieldKeys lists the accepted keys per field, Portuguese first.
var fieldKeys = struct {
	title, author, docType, issuingBody, summary, language, tags []string
}{
	title:       []string{"titulo", "título", "title"},
	author:      []string{"autor", "author"},
	docType:     []string{"tipo", "type"},
	issuingBody: []string{"orgao_emissor", "órgão_emissor", "issuing_body"},
	summary:     []string{"resumo_breve", "resumo", "summary"},
	language:    []string{"lingua", "língua", "idioma", "language"},
	tags:        []string{"tags", "palavras_chave"},
}

// Parse decodes an LLM reply into a Classification.
//
// Markdown code fences around the JSON are tolerated. Non-string values
// of text fields are treated as absent. Tags may be an array of strings
// or a single comma-separated string.
func Parse(reply string) (*domain.Classification, error) {
	body := stripFences(reply)
	if body == "" {
		return nil, errors.New("empty reply")
	}

	var raw any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errNotObject
	}

	return &domain.Classification{
		Title:       stringField(obj, fieldKeys.title),
		Author:      stringField(obj, fieldKeys.author),
		Type:        stringField(obj, fieldKeys.docType),
		IssuingBody: stringField(obj, fieldKeys.issuingBody),
		Summary:     stringField(obj, fieldKeys.summary),
		Language:    stringField(obj, fieldKeys.language),
		Tags:        tagsField(obj, fieldKeys.tags),
	}, nil
}

// stripFences removes a surrounding ```json ... ``` block, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func lookup(obj map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(obj map[string]any, keys []string) *string {
	v, ok := lookup(obj, keys)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func tagsField(obj map[string]any, keys []string) []string {
	v, ok := lookup(obj, keys)
	if !ok {
		return []string{}
	}

	var parts []string
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
	case string:
		parts = strings.Split(t, ",")
	}

	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

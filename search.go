package vsx

import (
	"context"
	"strings"
	"unicode"
)

// SearchMode selects the query strategy.
type SearchMode string

// Search modes. ModeAuto uses FTS when the index is healthy and falls back
// to LIKE otherwise.
const (
	ModeAuto SearchMode = "auto"
	ModeFTS  SearchMode = "fts"
	ModeLike SearchMode = "like"
)

// SearchQuery describes one search request. An empty Term returns an empty
// result set unless ListAll is set. Term supports the advanced syntax
// understood by ParseQuery.
type SearchQuery struct {
	Term     string        `json:"term"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Mode     SearchMode    `json:"mode,omitempty"`
	ListAll  bool          `json:"listAll,omitempty"`
	Filters  SearchFilters `json:"filters"`
}

// Validate returns an error if the query contains invalid fields.
func (q *SearchQuery) Validate() error {
	if q.Page < 1 {
		return Errorf(EINVALID, "page must be >= 1")
	}
	if q.PageSize < 1 || q.PageSize > 500 {
		return Errorf(EINVALID, "page size must be between 1 and 500")
	}
	switch q.Mode {
	case "", ModeAuto, ModeFTS, ModeLike:
	default:
		return Errorf(EINVALID, "unknown search mode %q", q.Mode)
	}
	if err := q.Filters.Validate(); err != nil {
		return err
	}
	return nil
}

// SearchFilters are structural predicates composed with the text search in
// the same query pass, so pagination totals stay correct.
type SearchFilters struct {
	MinWidth  *float64 `json:"minWidth,omitempty"`
	MaxWidth  *float64 `json:"maxWidth,omitempty"`
	MinHeight *float64 `json:"minHeight,omitempty"`
	MaxHeight *float64 `json:"maxHeight,omitempty"`

	// PropertyKey/PropertyValue match shapes carrying a custom property.
	// PropertyValue is compared against the property's text rendering.
	PropertyKey   string `json:"propertyKey,omitempty"`
	PropertyValue string `json:"propertyValue,omitempty"`

	// CaseSensitive applies to the LIKE strategy only; FTS tokenization is
	// case-insensitive by construction.
	CaseSensitive bool `json:"caseSensitive,omitempty"`

	// DirectoryPrefix limits results to stencils under a path prefix.
	DirectoryPrefix string `json:"directoryPrefix,omitempty"`
}

// Validate returns an error if the filters contain invalid fields.
func (f *SearchFilters) Validate() error {
	if f.MinWidth != nil && f.MaxWidth != nil && *f.MinWidth > *f.MaxWidth {
		return Errorf(EINVALID, "min width exceeds max width")
	}
	if f.MinHeight != nil && f.MaxHeight != nil && *f.MinHeight > *f.MaxHeight {
		return Errorf(EINVALID, "min height exceeds max height")
	}
	if f.PropertyValue != "" && f.PropertyKey == "" {
		return Errorf(EINVALID, "property value filter requires a property key")
	}
	return nil
}

// SearchResult is one ranked hit.
type SearchResult struct {
	Shape       *Shape  `json:"shape"`
	StencilName string  `json:"stencilName"`
	Rank        float64 `json:"rank"`

	// Snippet is a highlighted fragment of the matched name. Empty for the
	// LIKE strategy.
	Snippet string `json:"snippet,omitempty"`
}

// SearchPage is one page of results plus the total count, both drawn from
// the same query pass.
type SearchPage struct {
	Results []*SearchResult `json:"results"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`

	// Degraded is set when the FTS index was unusable and the LIKE fallback
	// served the request.
	Degraded bool `json:"degraded,omitempty"`
}

// SearchService represents the shape search engine.
type SearchService interface {
	// SearchShapes runs a ranked, paginated search. Equal ranks are ordered
	// by shape name then stencil path so pagination is deterministic.
	//
	// The two strategies deliberately differ on partial words: FTS matches
	// token prefixes ("pump" finds "Pump Station"), while the LIKE fallback
	// matches substrings anywhere in the name ("pump" also finds
	// "Heatpump").
	SearchShapes(ctx context.Context, q SearchQuery) (*SearchPage, error)
}

// ParsedQuery is the structured form of a search term.
type ParsedQuery struct {
	// And holds words and quoted phrases that must all match.
	And []string

	// Or holds alternatives of which at least one must match. Populated
	// only when the term contained an OR separator.
	Or []string

	// Not holds words and phrases that must not match.
	Not []string

	// Properties holds inline key:value filters, keys lowercased.
	Properties map[string]string
}

// HasTextTerms reports whether the query carries any positive text terms.
// A query of only exclusions and property filters has none.
func (p ParsedQuery) HasTextTerms() bool {
	return len(p.And) > 0 || len(p.Or) > 0
}

// ParseQuery parses a search term's advanced syntax: quoted phrases match
// as a unit, `OR` (or `|`) between words makes them alternatives, a `-`,
// `!` or `NOT` prefix excludes a word, and `key:value` tokens filter on
// custom properties. Plain words must all match.
func ParseQuery(term string) ParsedQuery {
	var p ParsedQuery
	var plain []string
	negateNext := false
	sawOr := false

	tokens := splitQueryTokens(term)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		text := tok.text
		neg := negateNext
		negateNext = false

		if !tok.phrase {
			switch {
			case text == "|" || strings.EqualFold(text, "or"):
				sawOr = true
				negateNext = neg
				continue
			case strings.EqualFold(text, "not"):
				negateNext = true
				continue
			}

			if strings.HasPrefix(text, "-") || strings.HasPrefix(text, "!") {
				neg = true
				text = text[1:]
			}

			if key, value, ok := strings.Cut(text, ":"); ok && !neg && key != "" {
				// A quoted value arrives as the following phrase token.
				if value == "" && i+1 < len(tokens) && tokens[i+1].phrase {
					i++
					value = tokens[i].text
				}
				if value != "" {
					if p.Properties == nil {
						p.Properties = make(map[string]string)
					}
					p.Properties[strings.ToLower(key)] = value
					continue
				}
			}
		}

		if text == "" {
			continue
		}
		switch {
		case neg:
			p.Not = append(p.Not, text)
		case tok.phrase:
			p.And = append(p.And, text)
		default:
			plain = append(plain, text)
		}
	}

	if sawOr {
		p.Or = dedupeTokens(plain)
	} else {
		p.And = append(p.And, plain...)
	}
	return p
}

type queryToken struct {
	text   string
	phrase bool
}

func splitQueryTokens(term string) []queryToken {
	var tokens []queryToken
	var cur strings.Builder
	inPhrase := false

	flush := func(phrase bool) {
		if cur.Len() > 0 {
			tokens = append(tokens, queryToken{text: cur.String(), phrase: phrase})
		}
		cur.Reset()
	}

	for _, r := range term {
		switch {
		case r == '"':
			flush(inPhrase)
			inPhrase = !inPhrase
		case !inPhrase && unicode.IsSpace(r):
			flush(false)
		default:
			cur.WriteRune(r)
		}
	}
	flush(inPhrase)
	return tokens
}

func dedupeTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// SavedSearch is a named, reusable search request.
type SavedSearch struct {
	ID      int64         `json:"id"`
	Name    string        `json:"name"`
	Term    string        `json:"term"`
	Filters SearchFilters `json:"filters"`
}

// Validate returns an error if the saved search contains invalid fields.
func (s *SavedSearch) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "saved search name required")
	}
	return nil
}

// SavedSearchService manages named searches.
type SavedSearchService interface {
	// CreateSavedSearch stores a named search. Returns ECONFLICT if the
	// name is taken.
	CreateSavedSearch(ctx context.Context, s *SavedSearch) error

	// FindSavedSearches lists all saved searches ordered by name.
	FindSavedSearches(ctx context.Context) ([]*SavedSearch, error)

	// DeleteSavedSearch removes a saved search.
	// Returns ENOTFOUND if it does not exist.
	DeleteSavedSearch(ctx context.Context, id int64) error
}

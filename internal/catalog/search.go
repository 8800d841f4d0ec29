package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type ContentType string

const (
	ContentTypeProduct ContentType = "PRODUCT"
	ContentTypeArticle ContentType = "ARTICLE"
)

// Searchable is anything that can show up in search results.
type Searchable interface {
	SearchTerm() string
	ContentType() ContentType
	ItemID() uuid.UUID
}

type SearchResult struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ContentType ContentType `json:"content_type"`
}

func ResultFromSearchable(s Searchable) SearchResult {
	return SearchResult{
		ID:          s.ItemID().String(),
		Name:        s.SearchTerm(),
		ContentType: s.ContentType(),
	}
}

type SearchableSource interface {
	Searchables() []Searchable
}

type Searcher struct {
	Source  SearchableSource
	Queries prometheus.Counter
}

func NewSearcher(src SearchableSource, reg prometheus.Registerer) *Searcher {
	s := &Searcher{Source: src}
	if reg != nil {
		s.Queries = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "search_queries_total",
			Help: "Total search queries",
		})
		reg.MustRegister(s.Queries)
	}
	return s
}

// Search matches pattern case-insensitively against every searchable's term.
// A blank pattern matches everything.
func (s *Searcher) Search(pattern string) []SearchResult {
	if s.Queries != nil {
		s.Queries.Inc()
	}

	items := s.Source.Searchables()
	out := make([]SearchResult, 0, len(items))

	needle := strings.ToLower(strings.TrimSpace(pattern))
	for _, it := range items {
		if needle != "" && !strings.Contains(strings.ToLower(it.SearchTerm()), needle) {
			continue
		}
		out = append(out, ResultFromSearchable(it))
	}
	return out
}

package sqlite

import (
	"context"
	"sort"
	"strings"

	"github.com/fwojciec/vsx"
)

// Compile-time interface verification.
var _ vsx.SearchService = (*SearchService)(nil)

// SearchService implements vsx.SearchService using SQLite. Two strategies
// are available: ranked FTS5 matching and a LIKE fallback over the base
// table. Both compose the structural filters into the same WHERE clause so
// the page and total are drawn from one snapshot.
type SearchService struct {
	db *DB
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB) *SearchService {
	return &SearchService{db: db}
}

// SearchShapes runs a ranked, paginated search.
func (s *SearchService) SearchShapes(ctx context.Context, q vsx.SearchQuery) (*vsx.SearchPage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	page := &vsx.SearchPage{
		Results: []*vsx.SearchResult{},
		Page:    q.Page,
		Size:    q.PageSize,
	}

	term := strings.TrimSpace(q.Term)
	if term == "" && !q.ListAll {
		return page, nil
	}
	parsed := vsx.ParseQuery(term)

	useFTS := false
	switch q.Mode {
	case vsx.ModeFTS:
		if s.db.Degraded() {
			return nil, vsx.Errorf(vsx.ECORRUPT, "search index unavailable")
		}
		useFTS = true
	case vsx.ModeLike:
	default: // ModeAuto
		useFTS = !s.db.Degraded()
	}
	page.Degraded = s.db.Degraded()

	// FTS needs positive text to match against. Full listings, pure
	// exclusions and property-only terms go through the base table.
	if !parsed.HasTextTerms() {
		useFTS = false
	}

	var err error
	if useFTS {
		err = s.searchFTS(ctx, q, parsed, page)
		// A corrupt index discovered mid-query degrades to the fallback
		// instead of failing the request.
		if err != nil && q.Mode != vsx.ModeFTS {
			s.db.degraded.Store(true)
			page.Degraded = true
			page.Results = page.Results[:0]
			err = s.searchLike(ctx, q, parsed, page)
		}
	} else {
		err = s.searchLike(ctx, q, parsed, page)
	}
	if err != nil {
		return nil, err
	}

	return page, nil
}

// searchFTS runs the ranked FTS5 strategy. FTS5 auxiliary functions cannot
// share a statement with window functions, so the total comes from a
// companion count over the same WHERE clause; both statements run on the
// store's single connection.
func (s *SearchService) searchFTS(ctx context.Context, q vsx.SearchQuery, parsed vsx.ParsedQuery, page *vsx.SearchPage) error {
	var where strings.Builder
	var args []any

	where.WriteString(`
		FROM shapes_fts
		JOIN shapes sh ON sh.id = shapes_fts.rowid
		JOIN stencils st ON st.path = sh.stencil_path
		WHERE shapes_fts MATCH ?
	`)
	args = append(args, ftsExpression(parsed))

	appendQueryProperties(&where, &args, parsed.Properties)
	appendSearchFilters(&where, &args, q.Filters)

	if err := s.countTotal(ctx, where.String(), args, page); err != nil {
		return err
	}

	var query strings.Builder
	query.WriteString(`
		SELECT sh.id, sh.stencil_path, sh.name, sh.width, sh.height, sh.geometry, sh.properties,
			st.name, bm25(shapes_fts), snippet(shapes_fts, 0, '[', ']', '…', 8)
	`)
	query.WriteString(where.String())

	// bm25 is ascending (lower is better). Equal ranks break on name then
	// stencil path then id for deterministic pagination.
	query.WriteString(" ORDER BY bm25(shapes_fts) ASC, sh.name ASC, sh.stencil_path ASC, sh.id ASC")
	appendPagination(&query, &args, q.PageSize, (q.Page-1)*q.PageSize)

	return s.collectResults(ctx, query.String(), args, page)
}

// searchLike runs the case-configurable substring fallback over the base
// table. Unlike FTS, which matches token prefixes, LIKE matches substrings
// anywhere in the name, so the fallback can also surface mid-word hits.
func (s *SearchService) searchLike(ctx context.Context, q vsx.SearchQuery, parsed vsx.ParsedQuery, page *vsx.SearchPage) error {
	var where strings.Builder
	var args []any

	where.WriteString(`
		FROM shapes sh
		JOIN stencils st ON st.path = sh.stencil_path
		WHERE 1=1
	`)

	cs := q.Filters.CaseSensitive
	for _, token := range parsed.And {
		cond, arg := nameCondition(cs, token)
		where.WriteString(" AND " + cond)
		args = append(args, arg)
	}
	if len(parsed.Or) > 0 {
		conds := make([]string, 0, len(parsed.Or))
		for _, token := range parsed.Or {
			cond, arg := nameCondition(cs, token)
			conds = append(conds, cond)
			args = append(args, arg)
		}
		where.WriteString(" AND (" + strings.Join(conds, " OR ") + ")")
	}
	for _, token := range parsed.Not {
		cond, arg := nameCondition(cs, token)
		where.WriteString(" AND NOT (" + cond + ")")
		args = append(args, arg)
	}

	appendQueryProperties(&where, &args, parsed.Properties)
	appendSearchFilters(&where, &args, q.Filters)

	if err := s.countTotal(ctx, where.String(), args, page); err != nil {
		return err
	}

	var query strings.Builder
	query.WriteString(`
		SELECT sh.id, sh.stencil_path, sh.name, sh.width, sh.height, sh.geometry, sh.properties,
			st.name, 0.0, ''
	`)
	query.WriteString(where.String())
	query.WriteString(" ORDER BY sh.name ASC, sh.stencil_path ASC, sh.id ASC")
	appendPagination(&query, &args, q.PageSize, (q.Page-1)*q.PageSize)

	return s.collectResults(ctx, query.String(), args, page)
}

// nameCondition builds the per-token name predicate for the LIKE strategy.
func nameCondition(caseSensitive bool, token string) (string, any) {
	if caseSensitive {
		// LIKE is case-insensitive for ASCII; instr preserves case.
		return "instr(sh.name, ?) > 0", token
	}
	return `sh.name LIKE ? ESCAPE '\'`, "%" + escapeLike(token) + "%"
}

// countTotal runs the companion count for a strategy's WHERE clause so
// Total stays exact even when the requested page lies past the last row.
func (s *SearchService) countTotal(ctx context.Context, where string, args []any, page *vsx.SearchPage) error {
	return s.db.QueryRowContext(ctx, "SELECT COUNT(*)"+where, args...).Scan(&page.Total)
}

// collectResults scans rows shared by both strategies.
func (s *SearchService) collectResults(ctx context.Context, query string, args []any, page *vsx.SearchPage) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var shape vsx.Shape
		var geometry, properties *string
		result := &vsx.SearchResult{Shape: &shape}

		if err := rows.Scan(&shape.ID, &shape.StencilPath, &shape.Name, &shape.Width, &shape.Height,
			&geometry, &properties, &result.StencilName, &result.Rank, &result.Snippet); err != nil {
			return err
		}

		if shape.Geometry, err = unmarshalGeometry(geometry); err != nil {
			return err
		}
		if shape.Properties, err = unmarshalProperties(properties); err != nil {
			return err
		}

		page.Results = append(page.Results, result)
	}

	return rows.Err()
}

// appendSearchFilters composes the structural predicates. They are part of
// the same WHERE clause as the text match so pagination totals stay exact.
func appendSearchFilters(query *strings.Builder, args *[]any, f vsx.SearchFilters) {
	if f.MinWidth != nil {
		query.WriteString(" AND sh.width >= ?")
		*args = append(*args, *f.MinWidth)
	}
	if f.MaxWidth != nil {
		query.WriteString(" AND sh.width <= ?")
		*args = append(*args, *f.MaxWidth)
	}
	if f.MinHeight != nil {
		query.WriteString(" AND sh.height >= ?")
		*args = append(*args, *f.MinHeight)
	}
	if f.MaxHeight != nil {
		query.WriteString(" AND sh.height <= ?")
		*args = append(*args, *f.MaxHeight)
	}
	if f.PropertyKey != "" {
		if f.PropertyValue != "" {
			query.WriteString(" AND CAST(json_extract(sh.properties, '$.' || ?) AS TEXT) = ?")
			*args = append(*args, f.PropertyKey, propertyText(f.PropertyValue))
		} else {
			query.WriteString(" AND json_extract(sh.properties, '$.' || ?) IS NOT NULL")
			*args = append(*args, f.PropertyKey)
		}
	}
	if f.DirectoryPrefix != "" {
		query.WriteString(" AND sh.stencil_path LIKE ? ESCAPE '\\'")
		*args = append(*args, escapeLike(f.DirectoryPrefix)+"%")
	}
}

// appendQueryProperties composes inline key:value terms from the search
// syntax, in sorted key order so the generated SQL is stable.
func appendQueryProperties(query *strings.Builder, args *[]any, props map[string]string) {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		query.WriteString(" AND CAST(json_extract(sh.properties, '$.' || ?) AS TEXT) = ?")
		*args = append(*args, key, propertyText(props[key]))
	}
}

// propertyText maps the user-facing bool forms onto json_extract's 1/0
// rendering.
func propertyText(value string) string {
	switch value {
	case "true":
		return "1"
	case "false":
		return "0"
	}
	return value
}

// ftsExpression converts a parsed query into an FTS5 MATCH expression.
// Every term becomes a quoted prefix query, so FTS5 operators inside a
// term are treated literally and single-word searches line up with the
// LIKE fallback on whole-word prefixes.
func ftsExpression(p vsx.ParsedQuery) string {
	parts := make([]string, 0, len(p.And)+1)
	for _, term := range p.And {
		parts = append(parts, ftsTerm(term))
	}
	if len(p.Or) > 0 {
		alts := make([]string, 0, len(p.Or))
		for _, term := range p.Or {
			alts = append(alts, ftsTerm(term))
		}
		parts = append(parts, "("+strings.Join(alts, " OR ")+")")
	}

	expr := strings.Join(parts, " AND ")
	for _, term := range p.Not {
		expr = "(" + expr + ") NOT " + ftsTerm(term)
	}
	return expr
}

func ftsTerm(term string) string {
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"*`
}

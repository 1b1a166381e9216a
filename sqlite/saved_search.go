package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/vsx"
)

// Compile-time interface verification.
var _ vsx.SavedSearchService = (*SavedSearchService)(nil)

// SavedSearchService implements vsx.SavedSearchService using SQLite.
// Filters are stored as a JSON document alongside the term.
type SavedSearchService struct {
	db *DB
}

// NewSavedSearchService creates a new SavedSearchService.
func NewSavedSearchService(db *DB) *SavedSearchService {
	return &SavedSearchService{db: db}
}

// CreateSavedSearch stores a named search.
func (s *SavedSearchService) CreateSavedSearch(ctx context.Context, saved *vsx.SavedSearch) error {
	if err := saved.Validate(); err != nil {
		return err
	}

	filters, err := json.Marshal(saved.Filters)
	if err != nil {
		return fmt.Errorf("failed to encode filters: %w", err)
	}

	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO saved_searches (name, search_term, filters)
			VALUES (?, ?, ?)
		`, saved.Name, saved.Term, string(filters))
		if err != nil {
			if isUniqueViolation(err) {
				return vsx.Errorf(vsx.ECONFLICT, "saved search %q already exists", saved.Name)
			}
			return err
		}

		saved.ID, err = res.LastInsertId()
		return err
	})
}

// FindSavedSearches lists all saved searches ordered by name.
func (s *SavedSearchService) FindSavedSearches(ctx context.Context) ([]*vsx.SavedSearch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, search_term, filters
		FROM saved_searches
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []*vsx.SavedSearch
	for rows.Next() {
		var saved vsx.SavedSearch
		var filters string

		if err := rows.Scan(&saved.ID, &saved.Name, &saved.Term, &filters); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(filters), &saved.Filters); err != nil {
			return nil, fmt.Errorf("failed to decode filters: %w", err)
		}

		searches = append(searches, &saved)
	}

	return searches, rows.Err()
}

// DeleteSavedSearch removes a saved search.
func (s *SavedSearchService) DeleteSavedSearch(ctx context.Context, id int64) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM saved_searches WHERE id = ?", id)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return vsx.Errorf(vsx.ENOTFOUND, "saved search not found")
		}
		return nil
	})
}

package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/vsx"
)

// Compile-time interface verification.
var _ vsx.FavoriteService = (*FavoriteService)(nil)

// FavoriteService implements vsx.FavoriteService using SQLite. Favorites
// cascade-delete with their stencil or shape, so listings never contain
// orphans.
type FavoriteService struct {
	db *DB
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(db *DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// CreateFavorite adds a favorite for a stencil or shape.
func (s *FavoriteService) CreateFavorite(ctx context.Context, f *vsx.Favorite) error {
	if err := f.Validate(); err != nil {
		return err
	}

	f.AddedAt = time.Now().UTC()

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		// Verify the target exists so the failure is ENOTFOUND rather than
		// a foreign key violation.
		var exists int
		if f.ShapeID != nil {
			err := tx.QueryRowContext(ctx,
				"SELECT 1 FROM shapes WHERE id = ? AND stencil_path = ?", *f.ShapeID, f.StencilPath).Scan(&exists)
			if err == sql.ErrNoRows {
				return vsx.Errorf(vsx.ENOTFOUND, "shape not found in stencil")
			} else if err != nil {
				return err
			}
		} else {
			err := tx.QueryRowContext(ctx,
				"SELECT 1 FROM stencils WHERE path = ?", f.StencilPath).Scan(&exists)
			if err == sql.ErrNoRows {
				return vsx.Errorf(vsx.ENOTFOUND, "stencil not found")
			} else if err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO favorites (stencil_path, shape_id, added_at)
			VALUES (?, ?, ?)
		`, f.StencilPath, f.ShapeID, f.AddedAt.Format(time.RFC3339))
		if err != nil {
			if isUniqueViolation(err) {
				return vsx.Errorf(vsx.ECONFLICT, "already a favorite")
			}
			return err
		}

		f.ID, err = res.LastInsertId()
		return err
	})
	return err
}

// FindFavorites lists favorites with display names, most recent first.
func (s *FavoriteService) FindFavorites(ctx context.Context) ([]*vsx.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.stencil_path, f.shape_id, f.added_at,
			st.name, COALESCE(sh.name, '')
		FROM favorites f
		JOIN stencils st ON st.path = f.stencil_path
		LEFT JOIN shapes sh ON sh.id = f.shape_id
		ORDER BY f.added_at DESC, f.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []*vsx.Favorite
	for rows.Next() {
		var fav vsx.Favorite
		var addedAt string

		if err := rows.Scan(&fav.ID, &fav.StencilPath, &fav.ShapeID, &addedAt,
			&fav.StencilName, &fav.ShapeName); err != nil {
			return nil, err
		}

		if fav.AddedAt, err = parseRFC3339(addedAt, "added_at"); err != nil {
			return nil, err
		}

		favorites = append(favorites, &fav)
	}

	return favorites, rows.Err()
}

// DeleteFavorite removes a favorite by ID.
func (s *FavoriteService) DeleteFavorite(ctx context.Context, id int64) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM favorites WHERE id = ?", id)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return vsx.Errorf(vsx.ENOTFOUND, "favorite not found")
		}
		return nil
	})
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

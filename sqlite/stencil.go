package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/vsx"
)

// Compile-time interface verification.
var _ vsx.StencilService = (*StencilService)(nil)

// StencilService implements vsx.StencilService using SQLite.
type StencilService struct {
	db *DB
}

// NewStencilService creates a new StencilService.
func NewStencilService(db *DB) *StencilService {
	return &StencilService{db: db}
}

// UpsertStencil records a stencil and its full shape set. An unchanged
// (size, mtime) pair is a no-op; otherwise the stencil's shapes are
// replaced wholesale inside one transaction.
func (s *StencilService) UpsertStencil(ctx context.Context, stencil *vsx.Stencil, shapes []*vsx.Shape) error {
	if err := stencil.Validate(); err != nil {
		return err
	}
	for _, shape := range shapes {
		if err := shape.Validate(); err != nil {
			return err
		}
	}

	existing, err := s.FindStencilByPath(ctx, stencil.Path)
	if err != nil && vsx.ErrorCode(err) != vsx.ENOTFOUND {
		return err
	}
	if existing != nil && existing.Fingerprint().Equal(stencil.Fingerprint()) {
		return nil
	}

	stencil.LastScan = time.Now().UTC()
	stencil.ShapeCount = len(shapes)

	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stencils (path, name, extension, file_size, shape_count, last_modified, last_scan, scan_error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				name = excluded.name,
				extension = excluded.extension,
				file_size = excluded.file_size,
				shape_count = excluded.shape_count,
				last_modified = excluded.last_modified,
				last_scan = excluded.last_scan,
				scan_error = excluded.scan_error
		`, stencil.Path, stencil.Name, stencil.Extension, stencil.FileSize, stencil.ShapeCount,
			stencil.LastModified.UTC().Format(time.RFC3339), stencil.LastScan.Format(time.RFC3339),
			stencil.ScanError)
		if err != nil {
			return err
		}

		// Replace the shape set. The FTS triggers and favorite cascades
		// follow the deletes.
		if _, err := tx.ExecContext(ctx, `DELETE FROM shapes WHERE stencil_path = ?`, stencil.Path); err != nil {
			return err
		}

		for _, shape := range shapes {
			geometry, err := marshalGeometry(shape.Geometry)
			if err != nil {
				return err
			}
			properties, err := marshalProperties(shape.Properties)
			if err != nil {
				return err
			}

			res, err := tx.ExecContext(ctx, `
				INSERT INTO shapes (stencil_path, name, width, height, geometry, properties)
				VALUES (?, ?, ?, ?, ?, ?)
			`, stencil.Path, shape.Name, shape.Width, shape.Height, geometry, properties)
			if err != nil {
				return err
			}
			shape.ID, err = res.LastInsertId()
			if err != nil {
				return err
			}
			shape.StencilPath = stencil.Path
		}

		return nil
	})
}

// FindStencilByPath retrieves a stencil by its normalized path.
func (s *StencilService) FindStencilByPath(ctx context.Context, path string) (*vsx.Stencil, error) {
	var stencil vsx.Stencil
	var lastModified, lastScan string

	err := s.db.QueryRowContext(ctx, `
		SELECT path, name, extension, file_size, shape_count, last_modified, last_scan, scan_error
		FROM stencils
		WHERE path = ?
	`, path).Scan(&stencil.Path, &stencil.Name, &stencil.Extension, &stencil.FileSize,
		&stencil.ShapeCount, &lastModified, &lastScan, &stencil.ScanError)

	if err == sql.ErrNoRows {
		return nil, vsx.Errorf(vsx.ENOTFOUND, "stencil not found")
	}
	if err != nil {
		return nil, err
	}

	if stencil.LastModified, err = parseRFC3339(lastModified, "last_modified"); err != nil {
		return nil, err
	}
	if stencil.LastScan, err = parseRFC3339(lastScan, "last_scan"); err != nil {
		return nil, err
	}

	return &stencil, nil
}

// FindStencils retrieves stencils matching the filter, ordered by path.
func (s *StencilService) FindStencils(ctx context.Context, filter vsx.StencilFilter) ([]*vsx.Stencil, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT path, name, extension, file_size, shape_count, last_modified, last_scan, scan_error FROM stencils WHERE 1=1")

	if filter.Path != nil {
		query.WriteString(" AND path = ?")
		args = append(args, *filter.Path)
	}
	if filter.PathPrefix != nil {
		query.WriteString(" AND path LIKE ? ESCAPE '\\'")
		args = append(args, escapeLike(*filter.PathPrefix)+"%")
	}

	query.WriteString(" ORDER BY path ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stencils []*vsx.Stencil
	for rows.Next() {
		var stencil vsx.Stencil
		var lastModified, lastScan string

		if err := rows.Scan(&stencil.Path, &stencil.Name, &stencil.Extension, &stencil.FileSize,
			&stencil.ShapeCount, &lastModified, &lastScan, &stencil.ScanError); err != nil {
			return nil, err
		}

		if stencil.LastModified, err = parseRFC3339(lastModified, "last_modified"); err != nil {
			return nil, err
		}
		if stencil.LastScan, err = parseRFC3339(lastScan, "last_scan"); err != nil {
			return nil, err
		}

		stencils = append(stencils, &stencil)
	}

	return stencils, rows.Err()
}

// RemoveStencil deletes a stencil, cascading to its shapes and favorites.
func (s *StencilService) RemoveStencil(ctx context.Context, path string) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM stencils WHERE path = ?", path)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return vsx.Errorf(vsx.ENOTFOUND, "stencil not found")
		}
		return nil
	})
}

// PruneStencils removes stencils under root whose paths were not seen in
// the latest scan.
func (s *StencilService) PruneStencils(ctx context.Context, root string, seen map[string]struct{}) (int, error) {
	prefix := root
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	stencils, err := s.FindStencils(ctx, vsx.StencilFilter{PathPrefix: &prefix})
	if err != nil {
		return 0, err
	}

	pruned := 0
	err = s.db.withTx(ctx, func(tx *sql.Tx) error {
		for _, stencil := range stencils {
			if _, ok := seen[stencil.Path]; ok {
				continue
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM stencils WHERE path = ?", stencil.Path); err != nil {
				return err
			}
			pruned++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return pruned, nil
}

// escapeLike escapes LIKE metacharacters so user-supplied strings match
// literally under ESCAPE '\'.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/vsx"
)

// Compile-time interface verification.
var _ vsx.DirectoryService = (*DirectoryService)(nil)

// DirectoryService implements vsx.DirectoryService using SQLite. The
// single-active-preset invariant is enforced here: activation deactivates
// every other preset in the same transaction.
type DirectoryService struct {
	db *DB
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(db *DB) *DirectoryService {
	return &DirectoryService{db: db}
}

// CreateDirectory adds a preset. An empty name defaults to the path's base
// name.
func (s *DirectoryService) CreateDirectory(ctx context.Context, d *vsx.DirectoryPreset) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.Name == "" {
		d.Name = filepath.Base(d.Path)
	}

	d.CreatedAt = time.Now().UTC()
	d.IsActive = false

	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO preset_directories (path, name, is_active, created_at)
			VALUES (?, ?, 0, ?)
		`, d.Path, d.Name, d.CreatedAt.Format(time.RFC3339))
		if err != nil {
			if isUniqueViolation(err) {
				return vsx.Errorf(vsx.ECONFLICT, "directory %q is already saved", d.Path)
			}
			return err
		}

		d.ID, err = res.LastInsertId()
		return err
	})
	return err
}

// FindDirectories lists presets, most recently created first.
func (s *DirectoryService) FindDirectories(ctx context.Context) ([]*vsx.DirectoryPreset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, name, is_active, created_at
		FROM preset_directories
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []*vsx.DirectoryPreset
	for rows.Next() {
		var d vsx.DirectoryPreset
		var createdAt string

		if err := rows.Scan(&d.ID, &d.Path, &d.Name, &d.IsActive, &createdAt); err != nil {
			return nil, err
		}

		if d.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		presets = append(presets, &d)
	}

	return presets, rows.Err()
}

// ActiveDirectory returns the active preset.
func (s *DirectoryService) ActiveDirectory(ctx context.Context) (*vsx.DirectoryPreset, error) {
	var d vsx.DirectoryPreset
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, path, name, is_active, created_at
		FROM preset_directories
		WHERE is_active = 1
		LIMIT 1
	`).Scan(&d.ID, &d.Path, &d.Name, &d.IsActive, &createdAt)

	if err == sql.ErrNoRows {
		return nil, vsx.Errorf(vsx.ENOTFOUND, "no active directory")
	}
	if err != nil {
		return nil, err
	}

	if d.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}

	return &d, nil
}

// ActivateDirectory marks one preset active and deactivates the rest.
func (s *DirectoryService) ActivateDirectory(ctx context.Context, id int64) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE preset_directories SET is_active = 0"); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, "UPDATE preset_directories SET is_active = 1 WHERE id = ?", id)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return vsx.Errorf(vsx.ENOTFOUND, "directory preset not found")
		}
		return nil
	})
}

// DeleteDirectory removes a preset and the stencils cataloged under its
// path.
func (s *DirectoryService) DeleteDirectory(ctx context.Context, id int64) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		var path string
		err := tx.QueryRowContext(ctx, "SELECT path FROM preset_directories WHERE id = ?", id).Scan(&path)
		if err == sql.ErrNoRows {
			return vsx.Errorf(vsx.ENOTFOUND, "directory preset not found")
		} else if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM preset_directories WHERE id = ?", id); err != nil {
			return err
		}

		prefix := path
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM stencils WHERE path LIKE ? ESCAPE '\\'",
			escapeLike(prefix)+"%")
		return err
	})
}

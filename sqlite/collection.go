package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/vsx"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ vsx.CollectionService = (*CollectionService)(nil)

// CollectionService implements vsx.CollectionService using SQLite. The
// shape count is always derived from the membership table, never stored.
type CollectionService struct {
	db *DB
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(db *DB) *CollectionService {
	return &CollectionService{db: db}
}

// CreateCollection creates a new empty collection.
func (s *CollectionService) CreateCollection(ctx context.Context, c *vsx.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.ID = uuid.New().String()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.ShapeCount = 0

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, c.ID, c.Name, c.CreatedAt.Format(time.RFC3339), c.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindCollectionByID retrieves a collection with its derived shape count.
func (s *CollectionService) FindCollectionByID(ctx context.Context, id string) (*vsx.Collection, error) {
	var c vsx.Collection
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM collection_shapes cs WHERE cs.collection_id = c.id)
		FROM collections c
		WHERE c.id = ?
	`, id).Scan(&c.ID, &c.Name, &createdAt, &updatedAt, &c.ShapeCount)

	if err == sql.ErrNoRows {
		return nil, vsx.Errorf(vsx.ENOTFOUND, "collection not found")
	}
	if err != nil {
		return nil, err
	}

	if c.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &c, nil
}

// FindCollections lists collections ordered by name.
func (s *CollectionService) FindCollections(ctx context.Context) ([]*vsx.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM collection_shapes cs WHERE cs.collection_id = c.id)
		FROM collections c
		ORDER BY c.name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*vsx.Collection
	for rows.Next() {
		var c vsx.Collection
		var createdAt, updatedAt string

		if err := rows.Scan(&c.ID, &c.Name, &createdAt, &updatedAt, &c.ShapeCount); err != nil {
			return nil, err
		}

		if c.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		collections = append(collections, &c)
	}

	return collections, rows.Err()
}

// FindCollectionShapes lists member shapes ordered by name then id.
func (s *CollectionService) FindCollectionShapes(ctx context.Context, id string) ([]*vsx.Shape, error) {
	if _, err := s.FindCollectionByID(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT sh.id, sh.stencil_path, sh.name, sh.width, sh.height, sh.geometry, sh.properties
		FROM collection_shapes cs
		JOIN shapes sh ON sh.id = cs.shape_id
		WHERE cs.collection_id = ?
		ORDER BY sh.name ASC, sh.id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shapes []*vsx.Shape
	for rows.Next() {
		var shape vsx.Shape
		var geometry, properties *string

		if err := rows.Scan(&shape.ID, &shape.StencilPath, &shape.Name, &shape.Width, &shape.Height,
			&geometry, &properties); err != nil {
			return nil, err
		}

		if shape.Geometry, err = unmarshalGeometry(geometry); err != nil {
			return nil, err
		}
		if shape.Properties, err = unmarshalProperties(properties); err != nil {
			return nil, err
		}

		shapes = append(shapes, &shape)
	}

	return shapes, rows.Err()
}

// UpdateCollection renames and/or changes membership atomically.
func (s *CollectionService) UpdateCollection(ctx context.Context, id string, upd vsx.CollectionUpdate) (*vsx.Collection, error) {
	c, err := s.FindCollectionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now().UTC()

	err = s.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE collections SET name = ?, updated_at = ? WHERE id = ?
		`, c.Name, c.UpdatedAt.Format(time.RFC3339), id)
		if err != nil {
			return err
		}

		for _, shapeID := range upd.AddShapeIDs {
			var exists int
			err := tx.QueryRowContext(ctx, "SELECT 1 FROM shapes WHERE id = ?", shapeID).Scan(&exists)
			if err == sql.ErrNoRows {
				return vsx.Errorf(vsx.ENOTFOUND, "shape %d not found", shapeID)
			} else if err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO collection_shapes (collection_id, shape_id) VALUES (?, ?)
			`, id, shapeID); err != nil {
				return err
			}
		}

		for _, shapeID := range upd.RemoveShapeIDs {
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM collection_shapes WHERE collection_id = ? AND shape_id = ?
			`, id, shapeID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-derive the count after the membership change.
	return s.FindCollectionByID(ctx, id)
}

// DeleteCollection removes a collection and its membership rows.
func (s *CollectionService) DeleteCollection(ctx context.Context, id string) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", id)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return vsx.Errorf(vsx.ENOTFOUND, "collection not found")
		}
		return nil
	})
}

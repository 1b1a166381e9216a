package sqlite

import (
	"context"
	"database/sql"

	"github.com/fwojciec/vsx"
)

// Compile-time interface verification.
var _ vsx.ShapeService = (*ShapeService)(nil)

// ShapeService implements vsx.ShapeService using SQLite.
type ShapeService struct {
	db *DB
}

// NewShapeService creates a new ShapeService.
func NewShapeService(db *DB) *ShapeService {
	return &ShapeService{db: db}
}

// FindShapeByID retrieves a shape including geometry and properties.
func (s *ShapeService) FindShapeByID(ctx context.Context, id int64) (*vsx.Shape, error) {
	var shape vsx.Shape
	var geometry, properties *string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, stencil_path, name, width, height, geometry, properties
		FROM shapes
		WHERE id = ?
	`, id).Scan(&shape.ID, &shape.StencilPath, &shape.Name, &shape.Width, &shape.Height,
		&geometry, &properties)

	if err == sql.ErrNoRows {
		return nil, vsx.Errorf(vsx.ENOTFOUND, "shape not found")
	}
	if err != nil {
		return nil, err
	}

	if shape.Geometry, err = unmarshalGeometry(geometry); err != nil {
		return nil, err
	}
	if shape.Properties, err = unmarshalProperties(properties); err != nil {
		return nil, err
	}

	return &shape, nil
}

// FindShapesByStencil retrieves all shapes of a stencil ordered by name
// then id, so duplicates keep a stable order.
func (s *ShapeService) FindShapesByStencil(ctx context.Context, stencilPath string) ([]*vsx.Shape, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, stencil_path, name, width, height, geometry, properties
		FROM shapes
		WHERE stencil_path = ?
		ORDER BY name ASC, id ASC
	`, stencilPath)
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

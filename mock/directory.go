package mock

import (
	"context"

	"github.com/fwojciec/vsx"
)

var _ vsx.DirectoryService = (*DirectoryService)(nil)

// DirectoryService is a mock implementation of vsx.DirectoryService.
type DirectoryService struct {
	CreateDirectoryFn   func(ctx context.Context, d *vsx.DirectoryPreset) error
	FindDirectoriesFn   func(ctx context.Context) ([]*vsx.DirectoryPreset, error)
	ActiveDirectoryFn   func(ctx context.Context) (*vsx.DirectoryPreset, error)
	ActivateDirectoryFn func(ctx context.Context, id int64) error
	DeleteDirectoryFn   func(ctx context.Context, id int64) error
}

func (s *DirectoryService) CreateDirectory(ctx context.Context, d *vsx.DirectoryPreset) error {
	return s.CreateDirectoryFn(ctx, d)
}

func (s *DirectoryService) FindDirectories(ctx context.Context) ([]*vsx.DirectoryPreset, error) {
	return s.FindDirectoriesFn(ctx)
}

func (s *DirectoryService) ActiveDirectory(ctx context.Context) (*vsx.DirectoryPreset, error) {
	return s.ActiveDirectoryFn(ctx)
}

func (s *DirectoryService) ActivateDirectory(ctx context.Context, id int64) error {
	return s.ActivateDirectoryFn(ctx, id)
}

func (s *DirectoryService) DeleteDirectory(ctx context.Context, id int64) error {
	return s.DeleteDirectoryFn(ctx, id)
}

package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// RunRepository keeps analysis runs. ListRuns returns runs oldest first and
// without their tasks; GetRun loads the tasks.
type RunRepository interface {
	CreateRun(ctx context.Context, in Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, filter RunListFilter) ([]Run, error)
	DeleteRun(ctx context.Context, id string) error
	PruneRuns(ctx context.Context, keep int) (int, error)
}

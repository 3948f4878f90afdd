package repository

import (
	"context"

	"eclass/reconciler/datalake/model"
)

// Repository defines the interface for data storage operations.
type Repository interface {
	BulkUpsertCourses(ctx context.Context, courses []model.Course) error
}

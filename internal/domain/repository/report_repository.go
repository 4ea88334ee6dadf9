package repository

import (
	"context"

	"campusrent/internal/domain/entity"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	ListAll(ctx context.Context, limit, offset int) ([]*entity.Report, int64, error)
	ListByRenter(ctx context.Context, renterID string, limit, offset int) ([]*entity.Report, int64, error)
}

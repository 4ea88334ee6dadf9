package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"campusrent/internal/domain/entity"
	"campusrent/internal/domain/repository"
	"campusrent/pkg/errors"
)

type firestoreReportRepository struct {
	client *firestore.Client
}

func NewFirestoreReportRepository(client *firestore.Client) repository.ReportRepository {
	return &firestoreReportRepository{
		client: client,
	}
}

func (r *firestoreReportRepository) Create(ctx context.Context, report *entity.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	report.Timestamp = time.Now()

	_, err := r.client.Collection("reports").Doc(report.ID).Set(ctx, report)
	if err != nil {
		return errors.Internal("Failed to create report", err)
	}

	return nil
}

func (r *firestoreReportRepository) ListAll(ctx context.Context, limit, offset int) ([]*entity.Report, int64, error) {
	query := r.client.Collection("reports").OrderBy("timestamp", firestore.Desc)
	return r.listReports(ctx, query, limit, offset)
}

func (r *firestoreReportRepository) ListByRenter(ctx context.Context, renterID string, limit, offset int) ([]*entity.Report, int64, error) {
	query := r.client.Collection("reports").
		Where("renterId", "==", renterID).
		OrderBy("timestamp", firestore.Desc)
	return r.listReports(ctx, query, limit, offset)
}

func (r *firestoreReportRepository) listReports(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Report, int64, error) {
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count reports", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var reports []*entity.Report

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate reports", err)
		}

		var report entity.Report
		if err := doc.DataTo(&report); err != nil {
			return nil, 0, errors.Internal("Failed to parse report data", err)
		}
		report.ID = doc.Ref.ID
		reports = append(reports, &report)
	}

	return reports, total, nil
}

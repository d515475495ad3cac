package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reviewReportColumns = `id, kind, repo, repository_name, analysis_type, provider, model, score,
	files_analyzed, content, usage, validator_provider, validator_score, validator_content, created_at`

// SaveReviewReport inserts a report. A zero ID or CreatedAt is filled in.
func (db *DB) SaveReviewReport(ctx context.Context, report *ReviewReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	var usage []byte
	if report.Usage != nil {
		var err error
		if usage, err = json.Marshal(report.Usage); err != nil {
			return fmt.Errorf("failed to marshal usage: %w", err)
		}
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO review_reports (`+reviewReportColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		report.ID, report.Kind, report.Repo, report.RepositoryName, report.AnalysisType,
		report.Provider, report.Model, report.Score, report.FilesAnalyzed, report.Content,
		usage, report.ValidatorProvider, report.ValidatorScore, report.ValidatorContent,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save review report: %w", err)
	}
	return nil
}

// GetReviewReport returns a report by id, or nil when it does not exist.
func (db *DB) GetReviewReport(ctx context.Context, id uuid.UUID) (*ReviewReport, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+reviewReportColumns+` FROM review_reports WHERE id = $1`, id)
	report, err := scanReviewReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get review report: %w", err)
	}
	return report, nil
}

// ListReviewReports returns reports newest first.
func (db *DB) ListReviewReports(ctx context.Context, filter ReviewReportFilter) ([]ReviewReport, error) {
	query, args := buildListQuery(filter.normalized())
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list review reports: %w", err)
	}
	defer rows.Close()

	var reports []ReviewReport
	for rows.Next() {
		report, err := scanReviewReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review report: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review reports: %w", err)
	}
	return reports, nil
}

// DeleteReviewReport removes a report. Deleting a missing report is not an error.
func (db *DB) DeleteReviewReport(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM review_reports WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review report: %w", err)
	}
	return nil
}

func buildListQuery(f ReviewReportFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.Repo != "" {
		args = append(args, f.Repo)
		where = append(where, fmt.Sprintf("repo = $%d", len(args)))
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + reviewReportColumns + ` FROM review_reports`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	args = append(args, f.Limit, f.Offset)
	sb.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)))
	return sb.String(), args
}

func scanReviewReport(row pgx.Row) (*ReviewReport, error) {
	var (
		r     ReviewReport
		usage []byte
	)
	err := row.Scan(&r.ID, &r.Kind, &r.Repo, &r.RepositoryName, &r.AnalysisType, &r.Provider,
		&r.Model, &r.Score, &r.FilesAnalyzed, &r.Content, &usage, &r.ValidatorProvider,
		&r.ValidatorScore, &r.ValidatorContent, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(usage) > 0 {
		if err := json.Unmarshal(usage, &r.Usage); err != nil {
			return nil, fmt.Errorf("failed to unmarshal usage: %w", err)
		}
	}
	return &r, nil
}

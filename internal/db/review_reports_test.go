package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewReportFilter_Normalized(t *testing.T) {
	tests := []struct {
		name       string
		in         ReviewReportFilter
		wantLimit  int
		wantOffset int
	}{
		{"zero", ReviewReportFilter{}, DefaultListLimit, 0},
		{"capped", ReviewReportFilter{Limit: 1000}, MaxListLimit, 0},
		{"negative offset", ReviewReportFilter{Limit: 5, Offset: -3}, 5, 0},
		{"kept", ReviewReportFilter{Limit: 7, Offset: 14}, 7, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.normalized()
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}

func TestBuildListQuery(t *testing.T) {
	query, args := buildListQuery(ReviewReportFilter{Limit: 10, Offset: 20})
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY created_at DESC LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{10, 20}, args)

	query, args = buildListQuery(ReviewReportFilter{Repo: "octo/app", Kind: ReportKindCritique, Limit: 5})
	assert.Contains(t, query, "WHERE repo = $1 AND kind = $2")
	assert.Contains(t, query, "LIMIT $3 OFFSET $4")
	assert.Equal(t, []any{"octo/app", ReportKindCritique, 5, 0}, args)

	query, args = buildListQuery(ReviewReportFilter{Kind: ReportKindAnalysis, Limit: 5})
	assert.Contains(t, query, "WHERE kind = $1")
	assert.Len(t, args, 3)
}

func TestSchemaSQL_Embedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS review_reports")
}

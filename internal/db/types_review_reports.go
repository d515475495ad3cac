package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/types"
)

// Report kinds
const (
	ReportKindAnalysis = "analysis"
	ReportKindCritique = "critique"
)

// ReviewReport is one archived repository analysis or critique.
type ReviewReport struct {
	ID                uuid.UUID         `json:"id"`
	Kind              string            `json:"kind"`
	Repo              string            `json:"repo"`
	RepositoryName    string            `json:"repository_name"`
	AnalysisType      string            `json:"analysis_type"`
	Provider          string            `json:"provider"`
	Model             string            `json:"model"`
	Score             *int              `json:"score,omitempty"`
	FilesAnalyzed     int               `json:"files_analyzed"`
	Content           string            `json:"content"`
	Usage             *types.TokenUsage `json:"usage,omitempty"`
	ValidatorProvider *string           `json:"validator_provider,omitempty"`
	ValidatorScore    *int              `json:"validator_score,omitempty"`
	ValidatorContent  *string           `json:"validator_content,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ReviewReportFilter narrows ListReviewReports.
type ReviewReportFilter struct {
	Repo   string
	Kind   string
	Limit  int
	Offset int
}

// DefaultListLimit applies when a filter has no limit.
const DefaultListLimit = 20

// MaxListLimit caps the page size of a list query.
const MaxListLimit = 100

// normalized clamps Limit and Offset to their allowed ranges.
func (f ReviewReportFilter) normalized() ReviewReportFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Package store persists finished report summaries and the administrative
// region directory. Raw survey rows are never stored; a report is saved as
// one JSON document once generation completes.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/agrisurvey/soilreport/internal/report"
)

// ErrNotFound reports a lookup for a record that does not exist.
var ErrNotFound = eris.New("store: not found")

// ReportStatus tracks a report through its lifecycle.
type ReportStatus string

const (
	ReportQueued   ReportStatus = "queued"
	ReportRunning  ReportStatus = "running"
	ReportComplete ReportStatus = "complete"
	ReportFailed   ReportStatus = "failed"
)

// ReportRecord is a stored report with its generation metadata. Result is
// populated only for complete reports.
type ReportRecord struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	StandardID string         `json:"standard_id"`
	Status     ReportStatus   `json:"status"`
	Error      string         `json:"error,omitempty"`
	Result     *report.Report `json:"result,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Region is one entry of the administrative region directory.
type Region struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Parent    string    `json:"parent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportFilter specifies criteria for listing reports.
type ReportFilter struct {
	Status ReportStatus `json:"status,omitempty"`
	Limit  int          `json:"limit,omitempty"`
	Offset int          `json:"offset,omitempty"`
}

// Store defines the persistence interface for reports and regions.
type Store interface {
	// Reports
	CreateReport(ctx context.Context, name, standardID string) (*ReportRecord, error)
	CompleteReport(ctx context.Context, id string, result *report.Report) error
	FailReport(ctx context.Context, id string, cause string) error
	GetReport(ctx context.Context, id string) (*ReportRecord, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]ReportRecord, error)

	// Regions
	UpsertRegion(ctx context.Context, name, parent string) (*Region, error)
	ListRegions(ctx context.Context) ([]Region, error)
	DeleteRegion(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

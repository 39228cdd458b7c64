// Package store persists leads and pipeline run history.
package store

import (
	"context"
	"time"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Status   model.LeadStatus `json:"status,omitempty"`
	Industry model.Industry   `json:"industry,omitempty"`
	MinScore float64          `json:"min_score,omitempty"`
	Limit    int              `json:"limit,omitempty"`
	Offset   int              `json:"offset,omitempty"`
}

// RunRecord summarizes one persisted pipeline execution.
type RunRecord struct {
	ID        string        `json:"id"`
	Success   bool          `json:"success"`
	LeadCount int           `json:"lead_count"`
	Elapsed   time.Duration `json:"elapsed"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`

	Stages []model.StageResult `json:"stages,omitempty"`
}

// Store defines the persistence interface for the lead pipeline.
type Store interface {
	// Leads
	SaveLead(ctx context.Context, lead *model.Lead) error
	SaveLeads(ctx context.Context, leads []*model.Lead) error
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]*model.Lead, error)
	TopLeads(ctx context.Context, limit int) ([]*model.Lead, error)

	// Run history
	SaveRun(ctx context.Context, result *model.ExecutionResult) (*RunRecord, error)
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Package crm pushes pipeline output to downstream sales systems: qualified
// leads go to Salesforce, high-scoring disqualified leads go to a Notion
// review database for a human second look.
package crm

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/notion"
	"github.com/sells-group/leadgen-cli/pkg/salesforce"
)

// defaultReviewScore is the overall-score floor for sending a disqualified
// lead to manual review.
const defaultReviewScore = 60.0

// Syncer pushes leads to the configured CRM destinations. Either client may
// be nil, which disables that destination.
type Syncer struct {
	sf          salesforce.Client
	notion      notion.Client
	notionDB    string
	reviewScore float64
}

// NewSyncer creates a syncer. reviewScore of zero applies the default floor.
func NewSyncer(sf salesforce.Client, n notion.Client, notionDB string, reviewScore float64) *Syncer {
	if reviewScore <= 0 {
		reviewScore = defaultReviewScore
	}
	return &Syncer{sf: sf, notion: n, notionDB: notionDB, reviewScore: reviewScore}
}

// Result summarizes a sync pass.
type Result struct {
	SalesforcePushed int `json:"salesforce_pushed"`
	ReviewQueued     int `json:"review_queued"`
	Failures         int `json:"failures"`
}

// Sync pushes qualified leads to Salesforce and queues borderline
// disqualified leads for review, concurrently. Failures in either destination
// are logged and counted, never fatal: CRM sync must not cost a completed
// pipeline run its results.
func (s *Syncer) Sync(ctx context.Context, leads []*model.Lead) *Result {
	var qualified, review []*model.Lead
	for _, lead := range leads {
		switch {
		case lead.Status == model.StatusQualified:
			qualified = append(qualified, lead)
		case lead.Status == model.StatusDisqualified && overall(lead) >= s.reviewScore:
			review = append(review, lead)
		}
	}

	var (
		pushed, sfFailed     int
		queued, reviewFailed int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pushed, sfFailed = s.pushSalesforce(gCtx, qualified)
		return nil
	})
	g.Go(func() error {
		queued, reviewFailed = s.queueReview(gCtx, review)
		return nil
	})
	_ = g.Wait()

	return &Result{
		SalesforcePushed: pushed,
		ReviewQueued:     queued,
		Failures:         sfFailed + reviewFailed,
	}
}

func (s *Syncer) pushSalesforce(ctx context.Context, leads []*model.Lead) (pushed, failed int) {
	if s.sf == nil || len(leads) == 0 {
		return 0, 0
	}

	records := make([]map[string]any, 0, len(leads))
	for _, lead := range leads {
		records = append(records, salesforceRecord(lead))
	}

	results, err := s.sf.InsertCollection(ctx, "Lead", records)
	if err != nil {
		zap.L().Warn("crm: salesforce insert failed", zap.Int("leads", len(leads)), zap.Error(err))
		return 0, len(leads)
	}

	for i, r := range results {
		if !r.Success {
			failed++
			zap.L().Warn("crm: salesforce rejected lead",
				zap.String("lead", leads[i].ID),
				zap.Strings("errors", r.Errors),
			)
			continue
		}
		pushed++
	}
	return pushed, failed
}

// salesforceRecord maps a lead onto the standard Lead SObject fields.
func salesforceRecord(lead *model.Lead) map[string]any {
	record := map[string]any{
		"Company":    lead.Company.Name,
		"LastName":   "Unknown", // required by Salesforce; replaced below when a contact exists
		"Industry":   string(lead.Company.Industry),
		"Website":    lead.Company.Website,
		"LeadSource": "leadgen",
	}
	if lead.Company.EmployeeCount > 0 {
		record["NumberOfEmployees"] = lead.Company.EmployeeCount
	}
	if lead.Company.Description != "" {
		record["Description"] = lead.Company.Description
	}
	if len(lead.Contacts) > 0 {
		c := lead.Contacts[0]
		if c.Name != "" {
			record["LastName"] = c.Name
		}
		if c.Email != "" {
			record["Email"] = c.Email
		}
		if c.Title != "" {
			record["Title"] = c.Title
		}
	}
	if lead.Score != nil {
		record["Rating"] = rating(lead.Score.OverallScore)
	}
	return record
}

func rating(score float64) string {
	switch {
	case score >= 70:
		return "Hot"
	case score >= 50:
		return "Warm"
	default:
		return "Cold"
	}
}

func (s *Syncer) queueReview(ctx context.Context, leads []*model.Lead) (queued, failed int) {
	if s.notion == nil || s.notionDB == "" || len(leads) == 0 {
		return 0, 0
	}

	for _, lead := range leads {
		if _, err := s.notion.CreatePage(ctx, s.reviewPage(lead)); err != nil {
			failed++
			zap.L().Warn("crm: notion review page failed",
				zap.String("lead", lead.ID),
				zap.Error(err),
			)
			continue
		}
		queued++
	}
	return queued, failed
}

// reviewPage builds the Notion review-queue entry for a disqualified lead
// that scored well enough to warrant a human look.
func (s *Syncer) reviewPage(lead *model.Lead) *notionapi.PageCreateRequest {
	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(s.notionDB),
		},
		Properties: notionapi.Properties{
			"Name": notionapi.TitleProperty{
				Title: []notionapi.RichText{{Text: &notionapi.Text{Content: lead.Company.Name}}},
			},
			"Score": notionapi.NumberProperty{Number: overall(lead)},
			"Industry": notionapi.SelectProperty{
				Select: notionapi.Option{Name: string(lead.Company.Industry)},
			},
			"Status": notionapi.SelectProperty{
				Select: notionapi.Option{Name: "Needs Review"},
			},
			"Notes": notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: strings.Join(lead.ValidationNotes, "; ")}}},
			},
		},
	}
}

func overall(lead *model.Lead) float64 {
	if lead.Score == nil {
		return 0
	}
	return lead.Score.OverallScore
}

package model

import (
	"strings"
	"time"
)

// Industry classifies a company into one of the target verticals.
type Industry string

const (
	IndustryBanking    Industry = "banking"
	IndustryInsurance  Industry = "insurance"
	IndustryEnergy     Industry = "energy"
	IndustryGovernment Industry = "government"
	IndustryUnknown    Industry = "unknown"
)

// TargetIndustries are the verticals the pipeline sells into.
func TargetIndustries() []Industry {
	return []Industry{IndustryBanking, IndustryInsurance, IndustryEnergy, IndustryGovernment}
}

// LeadStatus represents where a lead is in the processing lifecycle.
type LeadStatus string

const (
	StatusNew          LeadStatus = "new"
	StatusEnriching    LeadStatus = "enriching"
	StatusValidating   LeadStatus = "validating"
	StatusQualified    LeadStatus = "qualified"
	StatusDisqualified LeadStatus = "disqualified"
	StatusContacted    LeadStatus = "contacted"
)

// BuyingSignal is an enumerated piece of evidence indicating purchase intent.
type BuyingSignal string

const (
	SignalJobPosting          BuyingSignal = "job_posting"
	SignalRecentFunding       BuyingSignal = "recent_funding"
	SignalExecutiveChange     BuyingSignal = "executive_change"
	SignalRegulatoryDeadline  BuyingSignal = "regulatory_deadline"
	SignalPartnership         BuyingSignal = "partnership_announcement"
	SignalTechInitiative      BuyingSignal = "technology_initiative"
	SignalRFPPublished        BuyingSignal = "rfp_published"
)

// TechStack identifies a technology platform observed at a company.
type TechStack string

const (
	StackLegacyMainframe TechStack = "legacy_mainframe"
	StackLegacyCOBOL     TechStack = "legacy_cobol"
	StackCloudAzure      TechStack = "cloud_azure"
	StackCloudAWS        TechStack = "cloud_aws"
	StackCloudGCP        TechStack = "cloud_gcp"
	StackOnPremise       TechStack = "on_premise"
	StackHybrid          TechStack = "hybrid"
)

// Contact holds a single decision-maker contact attached to a lead.
type Contact struct {
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Department  string `json:"department,omitempty"`
	Seniority   string `json:"seniority,omitempty"` // C-Level, VP, Director, Manager
}

// TechnologyIndicators capture modernization-opportunity evidence for a company.
type TechnologyIndicators struct {
	Stack               []TechStack `json:"stack,omitempty"`
	LegacySystems       bool        `json:"legacy_systems"`
	CloudMigration      bool        `json:"cloud_migration_signals"`
	Initiatives         []string    `json:"digital_transformation_initiatives,omitempty"`
	Partnerships        []string    `json:"partnerships,omitempty"`
	RecentITInvestments string      `json:"recent_it_investments,omitempty"`
	TechDebtScore       *float64    `json:"technology_debt_score,omitempty"` // 0-100
}

// Company is the organization behind a lead.
type Company struct {
	Name          string   `json:"name"`
	Industry      Industry `json:"industry"`
	Website       string   `json:"website,omitempty"`
	Size          string   `json:"size,omitempty"` // Small, Medium, Large, Enterprise
	Revenue       string   `json:"revenue,omitempty"`
	Location      string   `json:"location,omitempty"`
	Headquarters  string   `json:"headquarters,omitempty"`
	Description   string   `json:"description,omitempty"`
	FoundedYear   int      `json:"founded_year,omitempty"`
	EmployeeCount int      `json:"employee_count,omitempty"`

	// Industry-specific identifiers. At most one is authoritative per industry.
	FDICCert string `json:"fdic_cert_number,omitempty"` // banking
	NAICCode string `json:"naic_code,omitempty"`        // insurance
	DUNS     string `json:"duns_number,omitempty"`      // government
	SAMUEI   string `json:"sam_uei,omitempty"`          // government (SAM.gov)

	Technology *TechnologyIndicators `json:"technology_indicators,omitempty"`

	LinkedInURL   string `json:"linkedin_url,omitempty"`
	TwitterHandle string `json:"twitter_handle,omitempty"`
}

// DedupIdentifier returns the industry-specific identity key for the company,
// prefixed by its source tag, or "" when no authoritative identifier is set.
func (c Company) DedupIdentifier() string {
	switch {
	case c.FDICCert != "":
		return "fdic_" + c.FDICCert
	case c.SAMUEI != "":
		return "sam_" + c.SAMUEI
	case c.DUNS != "":
		return "duns_" + c.DUNS
	}
	return ""
}

// Domain extracts the bare host from the company website, or "".
func (c Company) Domain() string {
	d := strings.TrimPrefix(strings.TrimPrefix(c.Website, "https://"), "http://")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return d
}

// Lead is a candidate sales prospect produced by the pipeline.
type Lead struct {
	ID       string    `json:"id"`
	Company  Company   `json:"company"`
	Contacts []Contact `json:"contacts,omitempty"`

	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Provenance
	Source      string         `json:"source"` // producer that discovered the lead
	SourceData  map[string]any `json:"source_data,omitempty"`
	DataSources []string       `json:"data_sources,omitempty"`

	BuyingSignals []BuyingSignal `json:"buying_signals,omitempty"`
	SignalDetails map[string]any `json:"signal_details,omitempty"`

	Score *LeadScore `json:"score,omitempty"`

	IsValidated     bool     `json:"is_validated"`
	ValidationNotes []string `json:"validation_notes,omitempty"`

	IsEnriched bool       `json:"is_enriched"`
	EnrichedAt *time.Time `json:"enriched_at,omitempty"`

	Notes    []string       `json:"notes,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewLead constructs a lead in status new with timestamps set.
func NewLead(id string, company Company, source string) *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:            id,
		Company:       company,
		Status:        StatusNew,
		Source:        source,
		SignalDetails: make(map[string]any),
		Metadata:      make(map[string]any),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// HasSignal reports whether the lead already carries the given buying signal.
func (l *Lead) HasSignal(s BuyingSignal) bool {
	for _, existing := range l.BuyingSignals {
		if existing == s {
			return true
		}
	}
	return false
}

// AddSignal appends a buying signal unless it is already present.
func (l *Lead) AddSignal(s BuyingSignal) {
	if !l.HasSignal(s) {
		l.BuyingSignals = append(l.BuyingSignals, s)
	}
}

// AddDataSource records a data source unless it is already present.
func (l *Lead) AddDataSource(src string) {
	for _, existing := range l.DataSources {
		if existing == src {
			return
		}
	}
	l.DataSources = append(l.DataSources, src)
}

// AddTag appends a tag unless it is already present.
func (l *Lead) AddTag(tag string) {
	for _, existing := range l.Tags {
		if existing == tag {
			return
		}
	}
	l.Tags = append(l.Tags, tag)
}

// SetDetail stores a signal-evidence payload keyed by detector name.
func (l *Lead) SetDetail(key string, value any) {
	if l.SignalDetails == nil {
		l.SignalDetails = make(map[string]any)
	}
	l.SignalDetails[key] = value
}

// SetMeta stores an intermediate value passed between pipeline stages.
func (l *Lead) SetMeta(key string, value any) {
	if l.Metadata == nil {
		l.Metadata = make(map[string]any)
	}
	l.Metadata[key] = value
}

// Touch bumps the updated timestamp.
func (l *Lead) Touch() {
	l.UpdatedAt = time.Now().UTC()
}

// EnsureTechnology returns the company's technology indicators, allocating
// them on first use.
func (l *Lead) EnsureTechnology() *TechnologyIndicators {
	if l.Company.Technology == nil {
		l.Company.Technology = &TechnologyIndicators{}
	}
	return l.Company.Technology
}

package agrocostos

import "context"

// Tier selects the pagination policy of a query.
type Tier int

const (
	// TierPublic is the externally exposed, rate-limited path.
	TierPublic Tier = iota

	// TierInternal is the unbounded internal path.
	TierInternal
)

// DefaultMaxPages returns the page cap used when the caller sets none.
func (t Tier) DefaultMaxPages() int {
	if t == TierInternal {
		return DefaultMaxPages
	}
	return PublicMaxPages
}

// DocumentQuery is the parameter record accepted by DocumentService.
// Either Season names a season to look up, or the four identifying
// parameters are given directly.
type DocumentQuery struct {
	Season string `json:"season,omitempty"`

	ApplicationID    string `json:"applicationId,omitempty"`
	PageNumber       string `json:"pageNumber,omitempty"`
	ParentTrackingID string `json:"parentTrackingId,omitempty"`
	ArchiveDocName   string `json:"archiveDocName,omitempty"`
	FolderDocID      string `json:"folderDocId,omitempty"`
	MaxPages         int    `json:"maxPages,omitempty"`

	CropType string `json:"cropType,omitempty"`
	Region   string `json:"region,omitempty"`

	Tier Tier `json:"-"`
}

// Validate returns a ValidationError when the query can neither look up a
// season nor describe one directly.
func (q *DocumentQuery) Validate() error {
	if q.MaxPages < 0 {
		return &ValidationError{Fields: []string{"maxPages"}, Reason: "must not be negative"}
	}
	if q.Season != "" {
		return nil
	}
	return q.season().Validate()
}

// ToSeason converts the direct parameters into a Season with defaults applied.
func (q *DocumentQuery) ToSeason() *Season {
	s := q.season()
	if s.PageNumber == "" {
		s.PageNumber = DefaultPageNumber
	}
	if s.MaxPages == 0 {
		s.MaxPages = q.Tier.DefaultMaxPages()
	}
	return s
}

func (q *DocumentQuery) season() *Season {
	return &Season{
		Name:             q.ArchiveDocName,
		ApplicationID:    q.ApplicationID,
		PageNumber:       q.PageNumber,
		ParentTrackingID: q.ParentTrackingID,
		ArchiveDocName:   q.ArchiveDocName,
		FolderDocID:      q.FolderDocID,
		MaxPages:         q.MaxPages,
	}
}

// AppliedFilters echoes the filters a query ran with.
type AppliedFilters struct {
	CropType      string `json:"cropType,omitempty"`
	Region        string `json:"region,omitempty"`
	CropPattern   string `json:"cropPattern,omitempty"`
	RegionPattern string `json:"regionPattern,omitempty"`
}

// QueryResult is the outcome of a document query.
type QueryResult struct {
	SeasonLabel string          `json:"seasonLabel"`
	Season      *Season         `json:"season"`
	Total       int             `json:"totalRows"`
	Filtered    int             `json:"filteredRows"`
	Filters     AppliedFilters  `json:"appliedFilters"`
	Documents   []*DocumentLink `json:"documents"`

	// All holds every harvested row before filtering.
	All []*DocumentLink `json:"-"`
}

// ReportResult is a parsed cost report for the first document a query matched.
type ReportResult struct {
	Document    *DocumentLink `json:"document"`
	Candidates  int           `json:"candidates"`
	ContentHash string        `json:"contentHash"`
	Report      *CostReport   `json:"report"`
}

// DocumentService answers document queries against the live catalog.
type DocumentService interface {
	// QueryDocuments harvests the season described by q and filters the rows
	// by the crop-type and region patterns, when given.
	// Returns EINVALID for missing parameters, ENOTFOUND for an unknown
	// season name, and EPATTERN for malformed filters.
	QueryDocuments(ctx context.Context, q *DocumentQuery) (*QueryResult, error)

	// Report downloads the first document matched by q and parses its text.
	// Returns ENOTFOUND when no document matches and EEXTRACT when the
	// document text cannot be extracted.
	Report(ctx context.Context, q *DocumentQuery) (*ReportResult, error)
}

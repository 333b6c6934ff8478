package agrocostos

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// Default listing parameters.
const (
	DefaultApplicationID = "46"
	DefaultPageNumber    = "1"

	// DefaultMaxPages caps internal, unbounded harvests.
	DefaultMaxPages = 15

	// PublicMaxPages caps harvests on the externally exposed path.
	PublicMaxPages = 5
)

// listingKey is the static token the listing endpoint expects on direct posts.
const listingKey = "38988CC6D42723FBF48C19352FB8F66A6B3437EED9B1C102F6DF420A68932C39"

// Season represents one catalog period and the hidden form parameters the
// listing endpoint needs. All string fields are mirrored verbatim from the
// source site.
type Season struct {
	Name             string `json:"name"`
	ApplicationID    string `json:"applicationId"`
	PageNumber       string `json:"pageNumber"`
	ParentTrackingID string `json:"parentTrackingId"`
	ArchiveDocName   string `json:"archiveDocName"`
	FolderDocID      string `json:"folderDocId"`

	// MaxPages caps pagination. Zero means DefaultMaxPages.
	MaxPages int `json:"maxPages,omitempty"`
}

// Validate returns a ValidationError naming every identifying parameter
// the season lacks.
func (s *Season) Validate() error {
	var missing []string
	if s.ApplicationID == "" {
		missing = append(missing, "applicationId")
	}
	if s.ParentTrackingID == "" {
		missing = append(missing, "parentTrackingId")
	}
	if s.ArchiveDocName == "" {
		missing = append(missing, "archiveDocName")
	}
	if s.FolderDocID == "" {
		missing = append(missing, "folderDocId")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Usable reports whether the season carries everything a listing fetch needs.
func (s *Season) Usable() bool {
	return s.Validate() == nil
}

// PageLimit returns the effective pagination cap.
func (s *Season) PageLimit() int {
	if s.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return s.MaxPages
}

// ListingForm returns the form fields the listing endpoint expects for page n.
func (s *Season) ListingForm(page int) url.Values {
	return url.Values{
		"NumPag":            {strconv.Itoa(page)},
		"getIdCarpDoc":      {s.FolderDocID},
		"getNombre_Arc_Doc": {s.ArchiveDocName},
		"Aplicacion":        {s.ApplicationID},
		"IdPadre":           {s.ParentTrackingID},
	}
}

// DirectListingForm is like ListingForm but uses the season's own page number
// and the static key required when posting without a browser session.
func (s *Season) DirectListingForm() url.Values {
	page, err := strconv.Atoi(s.PageNumber)
	if err != nil || page < 1 {
		page = 1
	}
	form := s.ListingForm(page)
	if s.ApplicationID == "" {
		form.Set("Aplicacion", DefaultApplicationID)
	}
	form.Set("key", listingKey)
	return form
}

// SeasonFinder discovers seasons from the live catalog.
type SeasonFinder interface {
	// FindSeasons returns every allow-listed season found on the catalog page.
	// Seasons missing identifying parameters may be included; callers must
	// check Usable before fetching listings.
	FindSeasons(ctx context.Context) ([]*Season, error)
}

// SeasonParser recovers seasons from rendered catalog markup.
type SeasonParser interface {
	ParseSeasons(html string) ([]*Season, error)
}

// SeasonService returns the seasons available for harvesting.
type SeasonService interface {
	// FindSeasons returns usable seasons only.
	FindSeasons(ctx context.Context) ([]*Season, error)
}

// DefaultAllowList holds the season names the catalog is expected to show.
func DefaultAllowList() []string {
	return []string{
		"Primavera - Verano 2025",
		"O-I 2025/2026",
		"OI 2025/2026",
		"Perennes 2025",
		"ACTUALIZACIÓN EN AGROCOSTOS PUBLICADOS",
		"PV 2025",
	}
}

// DefaultSeasons returns the built-in seasons used when discovery fails.
func DefaultSeasons() []*Season {
	return []*Season{
		{
			Name:             "Primavera - Verano 2025",
			ApplicationID:    DefaultApplicationID,
			PageNumber:       DefaultPageNumber,
			ParentTrackingID: "124963",
			ArchiveDocName:   "PV 2025",
			FolderDocID:      "124963",
		},
	}
}

// FindSeasonByName returns the season whose name matches exactly.
func FindSeasonByName(seasons []*Season, name string) (*Season, error) {
	for _, s := range seasons {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, Errorf(ENOTFOUND, "season %q not found", name)
}

// FindSeasonByFolder returns the season with the given folder document ID.
func FindSeasonByFolder(seasons []*Season, folderDocID string) (*Season, error) {
	for _, s := range seasons {
		if s.FolderDocID == folderDocID {
			return s, nil
		}
	}
	return nil, Errorf(ENOTFOUND, "season with folder %q not found", folderDocID)
}

// MatchesAllowList reports whether name matches any allow-listed name,
// case-insensitively, in either direction of containment.
func MatchesAllowList(name string, allow []string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	for _, a := range allow {
		a = strings.ToLower(a)
		if strings.Contains(name, a) || strings.Contains(a, name) {
			return true
		}
	}
	return false
}

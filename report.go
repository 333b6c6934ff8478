package agrocostos

import (
	"regexp"
	"strings"
	"unicode"
)

// PDFText is the plain-text rendition of a PDF document.
type PDFText struct {
	PageCount int               `json:"pageCount"`
	Info      map[string]string `json:"info,omitempty"`
	Text      string            `json:"text"`
}

// PDFExtractor converts raw PDF bytes into plain text.
type PDFExtractor interface {
	// Extract returns EEXTRACT if data is not a readable PDF.
	Extract(data []byte) (*PDFText, error)
}

// Section identifies a block of a cost report.
type Section string

// Report sections.
const (
	SectionNone          Section = ""
	SectionCosts         Section = "costs"
	SectionTechnicalMemo Section = "technical-memo"
	SectionSensitivity   Section = "sensitivity-analysis"
)

// ReportMetadata holds the labeled fields found in a report's text.
type ReportMetadata struct {
	Crop      string            `json:"crop,omitempty"`
	Zone      string            `json:"zone,omitempty"`
	Cycle     string            `json:"cycle,omitempty"`
	State     string            `json:"state,omitempty"`
	Season    string            `json:"season,omitempty"`
	PageCount int               `json:"pageCount"`
	Info      map[string]string `json:"info,omitempty"`
}

// CostReport is the structured form of an Agrocostos PDF.
type CostReport struct {
	Metadata      ReportMetadata `json:"metadata"`
	Costs         []string       `json:"costs"`
	TechnicalMemo []string       `json:"technicalMemo"`
	Sensitivity   []string       `json:"sensitivityAnalysis"`
}

var metadataRes = map[string]*regexp.Regexp{
	"crop":   regexp.MustCompile(`(?im)^\s*cultivo\s*:\s*(.+?)\s*$`),
	"zone":   regexp.MustCompile(`(?im)^\s*zona\s*:\s*(.+?)\s*$`),
	"cycle":  regexp.MustCompile(`(?im)^\s*ciclo\s*:\s*(.+?)\s*$`),
	"state":  regexp.MustCompile(`(?im)^\s*estado\s*:\s*(.+?)\s*$`),
	"season": regexp.MustCompile(`(?im)^\s*temporada\s*:\s*(.+?)\s*$`),
}

// sectionKeywords are matched against folded, lower-cased lines.
var sectionKeywords = []struct {
	keyword string
	section Section
}{
	{"analisis de sensibilidad", SectionSensitivity},
	{"memoria tecnica", SectionTechnicalMemo},
	{"costos", SectionCosts},
}

var costMarkers = []string{"$", "costo", "total", "pesos", "mxn", "importe"}

// ParseReport classifies the lines of a report's text into sections and
// extracts its labeled metadata fields.
func ParseReport(text *PDFText) *CostReport {
	r := &CostReport{
		Metadata: ReportMetadata{
			PageCount: text.PageCount,
			Info:      text.Info,
		},
		Costs:         []string{},
		TechnicalMemo: []string{},
		Sensitivity:   []string{},
	}

	r.Metadata.Crop = firstMatch(metadataRes["crop"], text.Text)
	r.Metadata.Zone = firstMatch(metadataRes["zone"], text.Text)
	r.Metadata.Cycle = firstMatch(metadataRes["cycle"], text.Text)
	r.Metadata.State = firstMatch(metadataRes["state"], text.Text)
	r.Metadata.Season = firstMatch(metadataRes["season"], text.Text)

	current := SectionNone
	for _, line := range strings.Split(text.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if s, ok := detectSection(line); ok {
			current = s
			continue
		}
		switch current {
		case SectionCosts:
			if isCostLine(line) {
				r.Costs = append(r.Costs, line)
			}
		case SectionTechnicalMemo:
			r.TechnicalMemo = append(r.TechnicalMemo, line)
		case SectionSensitivity:
			r.Sensitivity = append(r.Sensitivity, line)
		}
	}
	return r
}

// detectSection reports the section a heading line switches to.
// Lines carrying figures are content, not headings.
func detectSection(line string) (Section, bool) {
	if strings.IndexFunc(line, unicode.IsDigit) >= 0 {
		return SectionNone, false
	}
	folded := strings.ToLower(Fold(line))
	for _, k := range sectionKeywords {
		if strings.Contains(folded, k.keyword) {
			return k.section, true
		}
	}
	return SectionNone, false
}

func isCostLine(line string) bool {
	if strings.IndexFunc(line, unicode.IsDigit) < 0 {
		return false
	}
	folded := strings.ToLower(Fold(line))
	for _, m := range costMarkers {
		if strings.Contains(folded, m) {
			return true
		}
	}
	return false
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

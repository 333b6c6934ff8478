// Package pdf extracts plain text and document info from PDF bytes using
// github.com/ledongthuc/pdf.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fwojciec/agrocostos"
	"github.com/ledongthuc/pdf"
)

// Ensure Extractor implements agrocostos.PDFExtractor at compile time.
var _ agrocostos.PDFExtractor = (*Extractor)(nil)

// infoKeys are the document info entries copied into PDFText.Info.
var infoKeys = []string{"Title", "Author", "Subject", "Keywords", "Creator", "Producer", "CreationDate", "ModDate"}

// Extractor reads PDF documents held in memory.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract implements agrocostos.PDFExtractor. The parser panics on some
// malformed streams; those panics are reported as EEXTRACT.
func (e *Extractor) Extract(data []byte) (text *agrocostos.PDFText, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = nil
			err = agrocostos.Errorf(agrocostos.EEXTRACT, "malformed PDF: %v", r)
		}
	}()

	if len(data) == 0 {
		return nil, agrocostos.Errorf(agrocostos.EEXTRACT, "empty document")
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, agrocostos.Errorf(agrocostos.EEXTRACT, "reading PDF: %v", err)
	}

	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		s, err := pageText(r, i)
		if err != nil {
			return nil, agrocostos.Errorf(agrocostos.EEXTRACT, "page %d: %v", i, err)
		}
		pages = append(pages, s)
	}

	return &agrocostos.PDFText{
		PageCount: n,
		Info:      documentInfo(r),
		Text:      strings.Join(pages, "\n"),
	}, nil
}

func pageText(r *pdf.Reader, n int) (string, error) {
	p := r.Page(n)
	if p.V.IsNull() {
		return "", fmt.Errorf("missing page object")
	}
	return p.GetPlainText(nil)
}

// documentInfo returns the string entries of the trailer's Info dictionary.
// Unreadable metadata yields nil rather than failing the extraction.
func documentInfo(r *pdf.Reader) (info map[string]string) {
	defer func() {
		if recover() != nil {
			info = nil
		}
	}()

	dict := r.Trailer().Key("Info")
	if dict.IsNull() {
		return nil
	}
	for _, k := range infoKeys {
		v := dict.Key(k)
		if v.Kind() != pdf.String {
			continue
		}
		s := strings.TrimSpace(v.Text())
		if s == "" {
			continue
		}
		if info == nil {
			info = make(map[string]string)
		}
		info[k] = s
	}
	return info
}

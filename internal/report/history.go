// Package report renders session summaries as downloadable documents.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// BuildHistoryReport renders the ban list and the seen-dog history (newest
// first, as given) as a single A4 PDF. Text is encoded as cp1252 for the core
// fonts; characters outside it print as '?'.
func BuildHistoryReport(bans []model.BannedTerm, history []model.HistoryEntry, generatedAt time.Time) ([]byte, error) {
	return buildHistoryReport(bans, history, generatedAt, true)
}

func buildHistoryReport(bans []model.BannedTerm, history []model.HistoryEntry, generatedAt time.Time, compress bool) ([]byte, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetCompression(compress)
	tr := p.UnicodeTranslatorFromDescriptor("")
	p.AddPage()

	p.SetFont("Arial", "B", 16)
	p.Cell(40, 10, "Dog Discoverer history")
	p.Ln(10)

	p.SetFont("Arial", "", 10)
	p.Cell(40, 8, "Generated "+generatedAt.UTC().Format(timeLayout))
	p.Ln(12)

	p.SetFont("Arial", "B", 12)
	p.Cell(40, 8, fmt.Sprintf("Ban list (%d)", len(bans)))
	p.Ln(8)

	p.SetFont("Arial", "", 11)
	if len(bans) == 0 {
		p.Cell(40, 8, "Nothing banned.")
		p.Ln(8)
	}
	for _, b := range bans {
		p.Cell(40, 8, "- "+tr(b.Term))
		p.Ln(8)
	}
	p.Ln(4)

	p.SetFont("Arial", "B", 12)
	p.Cell(40, 8, fmt.Sprintf("Seen dogs (%d)", len(history)))
	p.Ln(8)

	p.SetFont("Arial", "", 11)
	if len(history) == 0 {
		p.Cell(40, 8, "No dogs seen yet.")
		p.Ln(8)
	}
	for _, e := range history {
		p.Cell(40, 8, fmt.Sprintf("%s - %s", e.SeenAt.UTC().Format(timeLayout), tr(e.Dog.Breed)))
		p.Ln(6)
		p.SetFont("Arial", "", 8)
		p.Cell(40, 6, tr(e.Dog.ImageURL))
		p.SetFont("Arial", "", 11)
		p.Ln(8)
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

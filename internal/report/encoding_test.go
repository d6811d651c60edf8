package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
)

func TestBuildHistoryReport_EncodesNonASCIIForCoreFonts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bans := []model.BannedTerm{{ID: 1, Term: "Épagneul Breton", AddedAt: now}}
	history := []model.HistoryEntry{
		{ID: 1, Dog: model.DogResult{ImageURL: "https://images.dog.ceo/breeds/spaniel/a.jpg", Breed: "Spaniel Münsterländer"}, SeenAt: now},
	}

	out, err := buildHistoryReport(bans, history, now, false)

	require.NoError(t, err)
	body := string(out)
	assert.Contains(t, body, "\xc9pagneul Breton")
	assert.Contains(t, body, "Spaniel M\xfcnsterl\xe4nder")
	assert.NotContains(t, body, "Épagneul", "UTF-8 bytes must not reach the core font")
}

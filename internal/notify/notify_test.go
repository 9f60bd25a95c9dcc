package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Mapping(t *testing.T) {
	tests := []struct {
		sev   Severity
		class string
		icon  string
	}{
		{SeveritySuccess, "alert-success", "fas fa-check-circle"},
		{SeverityDanger, "alert-danger", "fas fa-exclamation-triangle"},
		{SeverityWarning, "alert-warning", "fas fa-exclamation-circle"},
		{SeverityInfo, "alert-info", "fas fa-info-circle"},
		{Severity("bogus"), "alert-info", "fas fa-info-circle"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.class, tt.sev.AlertClass(), tt.sev)
		assert.Equal(t, tt.icon, tt.sev.Icon(), tt.sev)
	}
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityDanger, ParseSeverity("danger"))
	assert.Equal(t, SeverityInfo, ParseSeverity("error"))
}

func TestBoard_ShowReplaces(t *testing.T) {
	b := NewBoard(time.Minute)

	first := b.Show(SeverityInfo, "Updating stock data...")
	second := b.Show(SeveritySuccess, "Stock data updated successfully")

	assert.NotEqual(t, first.ID, second.ID)

	cur, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, cur.ID)
	assert.Equal(t, "Stock data updated successfully", cur.Text)
	assert.Equal(t, "alert-success", cur.AlertClass())
}

func TestBoard_AutoDismiss(t *testing.T) {
	b := NewBoard(20 * time.Millisecond)
	b.Show(SeverityWarning, "Scan already in progress")

	_, ok := b.Current()
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)

	_, ok = b.Current()
	assert.False(t, ok, "message should expire")
}

func TestBoard_Dismiss(t *testing.T) {
	b := NewBoard(time.Minute)
	old := b.Show(SeverityInfo, "one")
	cur := b.Show(SeverityInfo, "two")

	assert.False(t, b.Dismiss(old.ID), "stale id must not dismiss the newer message")
	_, ok := b.Current()
	assert.True(t, ok)

	assert.True(t, b.Dismiss(cur.ID))
	_, ok = b.Current()
	assert.False(t, ok)
	assert.False(t, b.Dismiss(cur.ID))
}

func TestBoard_OnShow(t *testing.T) {
	b := NewBoard(0)
	var seen []Severity
	b.OnShow(func(s Severity) { seen = append(seen, s) })

	b.Show(SeverityDanger, "x")
	b.Show("weird", "y")

	assert.Equal(t, []Severity{SeverityDanger, SeverityInfo}, seen)
}

func TestNewBoard_DefaultTTL(t *testing.T) {
	b := NewBoard(0)
	msg := b.Show(SeverityInfo, "x")
	assert.Equal(t, DefaultTTL, msg.ExpiresAt.Sub(msg.IssuedAt))
}

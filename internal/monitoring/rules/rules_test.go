package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaviermotley/creative-content-security-lab/internal/monitoring/collector"
)

func downloadEvent(downloadedAt, expiresAt time.Time) collector.Event {
	return collector.Event{
		Type:         collector.EventTypeVendorDownload,
		Source:       collector.SourceVendorPortal,
		BuildID:      "build_001",
		VendorID:     "vendor_a",
		WatermarkID:  "wm-test",
		DownloadedAt: &downloadedAt,
		ExpiresAt:    &expiresAt,
	}
}

func TestDownloadAfterExpiry(t *testing.T) {
	ctx := context.Background()
	expiry := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)

	alerts := Evaluate(ctx, []collector.Event{downloadEvent(expiry.Add(time.Second), expiry)})
	require.Len(t, alerts, 1)
	assert.Equal(t, "download_after_expiry", alerts[0].Rule)
	assert.Equal(t, SeverityMedium, alerts[0].Severity)
	assert.Equal(t, "Vendor vendor_a downloaded build build_001 after expiry.", alerts[0].Message)
	assert.Equal(t, "wm-test", alerts[0].Event.WatermarkID)
}

func TestDownloadWithinWindow(t *testing.T) {
	ctx := context.Background()
	expiry := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)

	alerts := Evaluate(ctx, []collector.Event{downloadEvent(expiry.Add(-time.Hour), expiry)})
	assert.Empty(t, alerts)
}

func TestDownloadAtExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	expiry := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)

	// a download at exactly the expiry instant does not fire
	alerts := Evaluate(ctx, []collector.Event{downloadEvent(expiry, expiry)})
	assert.Empty(t, alerts)
}

func TestEvaluateIgnoresOtherEvents(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	alerts := Evaluate(ctx, []collector.Event{
		{Type: "build_created", Source: collector.SourcePipeline, BuildID: "build_001", Timestamp: &ts},
		{Type: collector.EventTypeVendorDownload, Source: collector.SourceSimulation, BuildID: "build_001"},
	})
	assert.Empty(t, alerts)
}

func TestEvaluateDeterministic(t *testing.T) {
	ctx := context.Background()
	expiry := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	events := []collector.Event{
		downloadEvent(expiry.Add(-time.Hour), expiry),
		downloadEvent(expiry.Add(48*time.Hour), expiry),
		downloadEvent(expiry.Add(time.Second), expiry),
	}

	first := Evaluate(ctx, events)
	second := Evaluate(ctx, events)
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestWriteAlerts(t *testing.T) {
	ctx := context.Background()
	expiry := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "alerts", FileName)

	alerts := Evaluate(ctx, []collector.Event{downloadEvent(expiry.Add(time.Second), expiry)})
	require.Nil(t, WriteAlerts(path, alerts))

	// re-evaluation overwrites rather than appends
	require.Nil(t, WriteAlerts(path, nil))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(content))
}

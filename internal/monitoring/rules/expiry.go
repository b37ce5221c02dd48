package rules

import (
	"fmt"

	"github.com/xaviermotley/creative-content-security-lab/internal/monitoring/collector"
)

// downloadAfterExpiry fires for vendor downloads recorded strictly after
// their access window expired. A download at exactly the expiry instant
// does not fire.
type downloadAfterExpiry struct{}

func (downloadAfterExpiry) Name() string {
	return "download_after_expiry"
}

func (r downloadAfterExpiry) Evaluate(event collector.Event) *Alert {
	if event.Type != collector.EventTypeVendorDownload {
		return nil
	}
	if event.DownloadedAt == nil || event.ExpiresAt == nil {
		return nil
	}
	if !event.DownloadedAt.After(*event.ExpiresAt) {
		return nil
	}
	return &Alert{
		Rule:     r.Name(),
		Severity: SeverityMedium,
		Message:  fmt.Sprintf("Vendor %s downloaded build %s after expiry.", event.VendorID, event.BuildID),
		Event:    event,
	}
}

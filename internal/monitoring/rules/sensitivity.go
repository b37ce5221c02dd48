package rules

import (
	"github.com/xaviermotley/creative-content-security-lab/internal/monitoring/collector"
)

// highSensitivityVendor is a reserved extension point for flagging
// high-sensitivity builds targeted at vendors outside an allowlist. It
// is registered but intentionally inert until an allowlist exists.
type highSensitivityVendor struct{}

func (highSensitivityVendor) Name() string {
	return "high_sensitivity_vendor"
}

func (highSensitivityVendor) Evaluate(event collector.Event) *Alert {
	if event.Type != "build_created" {
		return nil
	}
	// TODO: once vendor allowlists are part of the manifest, flag
	// high-sensitivity components targeted outside the allowlist.
	return nil
}

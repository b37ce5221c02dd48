package models

import "time"

const EventTypeBuildCreated = "build_created"

// BuildEvent is appended once per assembler run.
type BuildEvent struct {
	Type          string    `json:"type"`
	BuildID       string    `json:"build_id"`
	Timestamp     time.Time `json:"timestamp"`
	TargetVendors []string  `json:"target_vendors"`
}

// DownloadEvent is appended by the portal on every successful download
// request. Repeated downloads for the same (build, vendor) pair append
// repeated events; this is a download history, not a grant ledger.
type DownloadEvent struct {
	VendorID     string    `json:"vendor_id"`
	BuildID      string    `json:"build_id"`
	WatermarkID  string    `json:"watermark_id"`
	DownloadedAt time.Time `json:"downloaded_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

package models

import "time"

// Asset is a registry entry snapshot. Builds embed resolved snapshots so
// later registry edits never mutate an existing build.
type Asset struct {
	ID          string `json:"id" validate:"required"`
	Path        string `json:"path" validate:"required"`
	Owner       string `json:"owner"`
	Sensitivity string `json:"sensitivity" validate:"omitempty,oneof=low medium high"`
}

// Build is the canonical record emitted by the assembler. Immutable after
// creation.
type Build struct {
	BuildID       string    `json:"build_id"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	Assets        []Asset   `json:"assets"`
	TargetVendors []string  `json:"target_vendors"`
}

// IsTargetVendor reports whether vendorID is authorized for this build.
func (b *Build) IsTargetVendor(vendorID string) bool {
	for _, v := range b.TargetVendors {
		if v == vendorID {
			return true
		}
	}
	return false
}

// BuildSummary is the portal-visible view of a build.
type BuildSummary struct {
	BuildID     string    `json:"build_id"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (b *Build) Summary() BuildSummary {
	return BuildSummary{
		BuildID:     b.BuildID,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
}

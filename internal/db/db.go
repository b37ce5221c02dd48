package db

import (
	"context"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
)

// The store is split into narrow per-entity interfaces so that each
// component only sees the operations it owns. The pipeline writes builds
// and build events, the portal reads builds and appends download events,
// and the collector only reads. Event interfaces are append-only: there
// is deliberately no update or delete on either log.

type VendorManager interface {
	CreateVendor(ctx context.Context, vendor *models.Vendor) apperrors.Error
	GetVendor(ctx context.Context, vendorID string) (*models.Vendor, apperrors.Error)
	ListVendors(ctx context.Context) ([]*models.Vendor, apperrors.Error)
}

type BuildManager interface {
	// UpsertBuild records a build, replacing any prior record for the
	// same build id. Re-assembly overwrites; there is no build
	// versioning.
	UpsertBuild(ctx context.Context, build *models.Build) apperrors.Error
	GetBuild(ctx context.Context, buildID string) (*models.Build, apperrors.Error)
	ListBuildsForVendor(ctx context.Context, vendorID string) ([]*models.Build, apperrors.Error)
}

type EventManager interface {
	AppendBuildEvent(ctx context.Context, event *models.BuildEvent) apperrors.Error
	ListBuildEvents(ctx context.Context) ([]*models.BuildEvent, apperrors.Error)
	AppendDownloadEvent(ctx context.Context, event *models.DownloadEvent) apperrors.Error
	ListDownloadEvents(ctx context.Context) ([]*models.DownloadEvent, apperrors.Error)
}

// Store is the full surface backed by a single embedded database.
type Store interface {
	VendorManager
	BuildManager
	EventManager
	Close() error
}

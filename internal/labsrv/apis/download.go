package apis

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/httpx"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
	"github.com/xaviermotley/creative-content-security-lab/internal/labsrv/watermark"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/encryptor"
)

type downloadRsp struct {
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	WatermarkID    string    `json:"watermark_id"`
	PackageLocator string    `json:"package_locator"`
	DownloadedAt   time.Time `json:"downloaded_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// downloadBuild issues an authorized download: it requires the vendor's
// encrypted package to exist, tags the grant with the deterministic
// watermark id, and appends a DownloadEvent. Every successful call
// appends a new event; this is a download history, not a single-grant
// ledger. The 404 for a missing package is identical whether the build
// does not exist at all or exists only for other vendors.
func (h *Handler) downloadBuild(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	buildID := chi.URLParam(r, "buildID")
	if buildID == "" {
		return nil, httpx.ErrInvalidRequest("missing build id")
	}

	var creds VendorAuth
	if err := httpx.GetRequestData(r, &creds); err != nil {
		return nil, err
	}

	vendor, err := h.Auth.Authenticate(ctx, creds.VendorID, creds.Secret)
	if err != nil {
		return nil, err
	}

	lock := h.downloadLock(vendor.ID)
	lock.Lock()
	defer lock.Unlock()

	packagePath := encryptor.PackagePath(h.BuildsDir, buildID, vendor.ID)
	if _, err := os.Stat(packagePath); err != nil {
		return nil, httpx.ErrNotFound("no encrypted package available for this build")
	}

	watermarkID := watermark.ID(buildID, vendor.ID)
	now := time.Now().UTC().Truncate(time.Second)

	event := &models.DownloadEvent{
		VendorID:     vendor.ID,
		BuildID:      buildID,
		WatermarkID:  watermarkID,
		DownloadedAt: now,
		ExpiresAt:    now.Add(h.Window),
	}
	if err := h.Store.AppendDownloadEvent(ctx, event); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("vendor_id", vendor.ID).
		Str("build_id", buildID).
		Str("watermark_id", watermarkID).
		Msg("download recorded")

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: downloadRsp{
			Status:         "ok",
			Message:        "Download recorded; fetch the encrypted package at the locator.",
			WatermarkID:    watermarkID,
			PackageLocator: packagePath,
			DownloadedAt:   event.DownloadedAt,
			ExpiresAt:      event.ExpiresAt,
		},
	}, nil
}

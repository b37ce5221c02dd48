package apis

import (
	"net/http"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/httpx"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
)

// listBuilds returns every build whose target vendor list contains the
// authenticated vendor. This is the principal confidentiality boundary
// of the lab: a vendor must never see builds it is not authorized for.
func (h *Handler) listBuilds(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	var creds VendorAuth
	if err := httpx.GetRequestData(r, &creds); err != nil {
		return nil, err
	}

	vendor, err := h.Auth.Authenticate(ctx, creds.VendorID, creds.Secret)
	if err != nil {
		return nil, err
	}

	builds, err := h.Store.ListBuildsForVendor(ctx, vendor.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.BuildSummary, 0, len(builds))
	for _, build := range builds {
		summaries = append(summaries, build.Summary())
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   summaries,
	}, nil
}

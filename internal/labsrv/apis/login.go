package apis

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/httpx"
)

// VendorAuth is the credential envelope every portal request carries.
type VendorAuth struct {
	VendorID string `json:"vendor_id"`
	Secret   string `json:"secret"`
}

type vendorRsp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type loginRsp struct {
	Status string    `json:"status"`
	Vendor vendorRsp `json:"vendor"`
}

func (h *Handler) login(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	var creds VendorAuth
	if err := httpx.GetRequestData(r, &creds); err != nil {
		return nil, err
	}

	vendor, err := h.Auth.Authenticate(ctx, creds.VendorID, creds.Secret)
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("vendor_id", vendor.ID).Msg("vendor login")
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: loginRsp{
			Status: "ok",
			Vendor: vendorRsp{ID: vendor.ID, Name: vendor.Name},
		},
	}, nil
}

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/db"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/dberror"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
)

var (
	// ErrInvalidCredentials is returned for unknown vendors and wrong
	// secrets alike; the portal never distinguishes the two.
	ErrInvalidCredentials apperrors.Error = apperrors.New("invalid vendor credentials").SetStatusCode(http.StatusUnauthorized)
)

// Authenticator checks vendor credentials against the vendor store.
// Secrets are stored and compared verbatim; this is a documented
// hardening gap of the lab, kept rather than silently fixed.
type Authenticator struct {
	Vendors db.VendorManager
}

func (a *Authenticator) Authenticate(ctx context.Context, vendorID, secret string) (*models.Vendor, apperrors.Error) {
	if vendorID == "" || secret == "" {
		return nil, ErrInvalidCredentials
	}
	vendor, err := a.Vendors.GetVendor(ctx, vendorID)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Ctx(ctx).Error().Err(err).Msg("vendor lookup failed")
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(vendor.Secret), []byte(secret)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return vendor, nil
}

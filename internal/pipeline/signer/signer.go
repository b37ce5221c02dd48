package signer

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
)

var (
	// ErrIntegrity is fatal to any consumer relying on signed metadata.
	ErrIntegrity apperrors.Error = apperrors.New("signature verification failed").SetStatusCode(http.StatusInternalServerError)
)

// Algorithm is the only digest algorithm in use. The signature record
// format pins it by name.
const Algorithm = "SHA256"

// FileName is the canonical signature file inside a build workspace.
const FileName = "signature.json"

// Signature is a tamper-evidence digest over build metadata and SBOM.
// This is an integrity check, not an authenticity signature: there is no
// private-key signing in the lab.
type Signature struct {
	BuildID   string `json:"build_id"`
	Algorithm string `json:"algorithm"`
	Digest    string `json:"digest"`
}

// Sign computes the digest over metaBytes followed by sbomBytes, in that
// fixed order.
func Sign(buildID string, metaBytes, sbomBytes []byte) *Signature {
	h := sha256.New()
	h.Write(metaBytes)
	h.Write(sbomBytes)
	return &Signature{
		BuildID:   buildID,
		Algorithm: Algorithm,
		Digest:    hex.EncodeToString(h.Sum(nil)),
	}
}

// Verify recomputes the digest over the given bytes and compares it with
// the signature, byte for byte.
func Verify(metaBytes, sbomBytes []byte, sig *Signature) bool {
	if sig == nil || sig.Algorithm != Algorithm {
		return false
	}
	computed := Sign(sig.BuildID, metaBytes, sbomBytes)
	return subtle.ConstantTimeCompare([]byte(computed.Digest), []byte(sig.Digest)) == 1
}

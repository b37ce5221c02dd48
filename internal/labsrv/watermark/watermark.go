package watermark

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// namespace keys the watermark hash. It is a fixed domain separator, not
// a secret: determinism across deployments is what makes a leaked
// package traceable back to its (build, vendor) grant.
const namespace = "creative-content-security-lab/watermark/v1"

// ID derives the watermark identifier for a (build, vendor) pair. This
// is a design contract, not an incidental format: the same pair always
// yields the same watermark, so repeated downloads trace to the same
// logical grant while each download event keeps its own timestamps.
func ID(buildID, vendorID string) string {
	mac := hmac.New(sha256.New, []byte(namespace))
	mac.Write([]byte(buildID))
	mac.Write([]byte{0x1f})
	mac.Write([]byte(vendorID))
	return "wm-" + hex.EncodeToString(mac.Sum(nil))[:32]
}

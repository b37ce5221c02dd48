package models

// Vendor is an external party authorized to receive encrypted packages.
// Secret is compared verbatim at the portal; plaintext custody is a known
// hardening gap of the lab, not to be silently changed.
type Vendor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

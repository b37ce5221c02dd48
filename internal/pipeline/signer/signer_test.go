package signer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	meta := []byte(`{"build_id":"build_001"}`)
	sbom := []byte(`{"components":[]}`)

	sig := Sign("build_001", meta, sbom)
	require.NotNil(t, sig)
	assert.Equal(t, "build_001", sig.BuildID)
	assert.Equal(t, Algorithm, sig.Algorithm)
	assert.Len(t, sig.Digest, 64)

	// same inputs, same digest
	again := Sign("build_001", meta, sbom)
	assert.Equal(t, sig.Digest, again.Digest)

	// order of inputs matters
	swapped := Sign("build_001", sbom, meta)
	assert.NotEqual(t, sig.Digest, swapped.Digest)
}

func TestVerify(t *testing.T) {
	meta := []byte(`{"build_id":"build_001"}`)
	sbom := []byte(`{"components":[]}`)
	sig := Sign("build_001", meta, sbom)

	assert.True(t, Verify(meta, sbom, sig))
}

func TestVerifyTamperedMetadata(t *testing.T) {
	meta := []byte(`{"build_id":"build_001"}`)
	sbom := []byte(`{"components":[]}`)
	sig := Sign("build_001", meta, sbom)

	tampered := []byte(`{"build_id":"build_001","description":"edited"}`)
	assert.False(t, Verify(tampered, sbom, sig))
	assert.False(t, Verify(meta, []byte(`[]`), sig))
}

func TestVerifyBadSignature(t *testing.T) {
	meta := []byte(`meta`)
	sbom := []byte(`sbom`)

	assert.False(t, Verify(meta, sbom, nil))

	sig := Sign("build_001", meta, sbom)
	sig.Algorithm = "MD5"
	assert.False(t, Verify(meta, sbom, sig))
}

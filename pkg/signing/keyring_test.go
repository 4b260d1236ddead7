package signing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func masterKeyring(t *testing.T) *Keyring {
	t.Helper()
	p, err := NewMemoryKeyProvider()
	require.NoError(t, err)
	k, err := NewKeyring(p)
	require.NoError(t, err)
	return k
}

func TestDeriveForTenantIsDeterministic(t *testing.T) {
	k := masterKeyring(t)

	a, err := k.DeriveForTenant("t1")
	require.NoError(t, err)
	b, err := k.DeriveForTenant("t1")
	require.NoError(t, err)

	assert.Equal(t, a.PublicKey(), b.PublicKey())
}

func TestDeriveForTenantIsolatesTenants(t *testing.T) {
	k := masterKeyring(t)

	a, err := k.DeriveForTenant("t1")
	require.NoError(t, err)
	b, err := k.DeriveForTenant("t2")
	require.NoError(t, err)

	assert.NotEqual(t, a.PublicKey(), b.PublicKey())
}

func TestDeriveForTenantRequiresID(t *testing.T) {
	k := masterKeyring(t)
	_, err := k.DeriveForTenant("")
	assert.Error(t, err)
}

func TestAttestAndVerifyHead(t *testing.T) {
	k := masterKeyring(t)

	att, err := k.AttestHead("t1", "ev-99", "sha256:abc")
	require.NoError(t, err)
	assert.NotEmpty(t, att.Signature)
	assert.NotEmpty(t, att.SignedAt)

	ok, err := k.VerifyAttestation(att)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRejectsTamperedAttestation(t *testing.T) {
	k := masterKeyring(t)

	att, err := k.AttestHead("t1", "ev-99", "sha256:abc")
	require.NoError(t, err)

	tampered := att
	tampered.HeadHash = "sha256:def"
	ok, err := k.VerifyAttestation(tampered)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsCrossTenantAttestation(t *testing.T) {
	k := masterKeyring(t)

	att, err := k.AttestHead("t1", "ev-99", "sha256:abc")
	require.NoError(t, err)

	// Same content presented as another tenant's head fails against that
	// tenant's derived key.
	stolen := att
	stolen.TenantID = "t2"
	ok, err := k.VerifyAttestation(stolen)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsDifferentMasterKey(t *testing.T) {
	att, err := masterKeyring(t).AttestHead("t1", "ev-99", "sha256:abc")
	require.NoError(t, err)

	other := masterKeyring(t)
	ok, err := other.VerifyAttestation(att)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAttestHeadRequiresFields(t *testing.T) {
	k := masterKeyring(t)
	_, err := k.AttestHead("", "ev-1", "sha256:abc")
	assert.Error(t, err)
	_, err = k.AttestHead("t1", "", "sha256:abc")
	assert.Error(t, err)
	_, err = k.AttestHead("t1", "ev-1", "")
	assert.Error(t, err)
}

// Package signing attests ledger chain heads. Each tenant gets its own
// HKDF-derived ed25519 keypair so an attestation for one tenant can never
// vouch for another's stream.
package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	"github.com/zerebrox/braincore/pkg/canonicalize"
)

// KeyProvider defines the interface for signing operations, so the
// in-memory backend can be swapped for an HSM or cloud KMS.
type KeyProvider interface {
	Sign(msg []byte) ([]byte, error)
	PublicKey() ed25519.PublicKey
	Seed() ([]byte, error)
}

// MemoryKeyProvider is an in-memory implementation for development and tests.
type MemoryKeyProvider struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

func NewMemoryKeyProvider() (*MemoryKeyProvider, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &MemoryKeyProvider{pub: pub, priv: priv}, nil
}

func (m *MemoryKeyProvider) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(m.priv, msg), nil
}

func (m *MemoryKeyProvider) PublicKey() ed25519.PublicKey {
	return m.pub
}

func (m *MemoryKeyProvider) Seed() ([]byte, error) {
	return m.priv.Seed(), nil
}

// Keyring signs chain-head attestations with a master key and derives
// per-tenant keyrings deterministically.
type Keyring struct {
	provider KeyProvider
	clock    func() time.Time
}

func NewKeyring(p KeyProvider) (*Keyring, error) {
	if p == nil {
		return nil, fmt.Errorf("keyring requires a key provider")
	}
	return &Keyring{provider: p, clock: time.Now}, nil
}

// WithClock replaces the timestamp source for tests.
func (k *Keyring) WithClock(clock func() time.Time) *Keyring {
	k.clock = clock
	return k
}

// PublicKey returns the keyring's verification key.
func (k *Keyring) PublicKey() ed25519.PublicKey {
	return k.provider.PublicKey()
}

// DeriveForTenant derives a tenant-specific Keyring using HKDF-SHA256 over
// the master seed, with the tenant id as the info parameter. The same
// master key and tenant always produce the same keypair.
func (k *Keyring) DeriveForTenant(tenantID string) (*Keyring, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenantID must not be empty")
	}
	seed, err := k.provider.Seed()
	if err != nil {
		return nil, fmt.Errorf("tenant key derivation: %w", err)
	}

	hkdfReader := hkdf.New(sha256.New, seed, []byte("braincore-tenant-kdf"), []byte(tenantID))
	tenantSeed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(hkdfReader, tenantSeed); err != nil {
		return nil, fmt.Errorf("HKDF derivation failed: %w", err)
	}

	priv := ed25519.NewKeyFromSeed(tenantSeed)
	pub := priv.Public().(ed25519.PublicKey)

	derived := &Keyring{
		provider: &MemoryKeyProvider{pub: pub, priv: priv},
		clock:    k.clock,
	}
	return derived, nil
}

// Attestation binds a tenant's chain head to a signature at a point in time.
type Attestation struct {
	TenantID  string `json:"tenantId"`
	HeadID    string `json:"headId"`
	HeadHash  string `json:"headHash"`
	SignedAt  string `json:"signedAt"`
	Signature string `json:"signature"`
}

type attestationMaterial struct {
	TenantID string `json:"tenantId"`
	HeadID   string `json:"headId"`
	HeadHash string `json:"headHash"`
	SignedAt string `json:"signedAt"`
}

// AttestHead signs the tenant's current chain head with the tenant-derived
// key. External persistence can verify the attestation independently of
// the hash chain itself.
func (k *Keyring) AttestHead(tenantID, headID, headHash string) (Attestation, error) {
	if tenantID == "" || headID == "" || headHash == "" {
		return Attestation{}, fmt.Errorf("attestation requires tenantId, headId and headHash")
	}

	tenantRing, err := k.DeriveForTenant(tenantID)
	if err != nil {
		return Attestation{}, err
	}

	material := attestationMaterial{
		TenantID: tenantID,
		HeadID:   headID,
		HeadHash: headHash,
		SignedAt: k.clock().UTC().Format(time.RFC3339Nano),
	}
	msg, err := canonicalize.JCS(material)
	if err != nil {
		return Attestation{}, fmt.Errorf("attestation material: %w", err)
	}
	sig, err := tenantRing.provider.Sign(msg)
	if err != nil {
		return Attestation{}, fmt.Errorf("sign head: %w", err)
	}

	return Attestation{
		TenantID:  material.TenantID,
		HeadID:    material.HeadID,
		HeadHash:  material.HeadHash,
		SignedAt:  material.SignedAt,
		Signature: base64.StdEncoding.EncodeToString(sig),
	}, nil
}

// VerifyAttestation checks the signature against the tenant-derived public
// key. Any altered field fails verification.
func (k *Keyring) VerifyAttestation(att Attestation) (bool, error) {
	tenantRing, err := k.DeriveForTenant(att.TenantID)
	if err != nil {
		return false, err
	}

	msg, err := canonicalize.JCS(attestationMaterial{
		TenantID: att.TenantID,
		HeadID:   att.HeadID,
		HeadHash: att.HeadHash,
		SignedAt: att.SignedAt,
	})
	if err != nil {
		return false, fmt.Errorf("attestation material: %w", err)
	}
	sig, err := base64.StdEncoding.DecodeString(att.Signature)
	if err != nil {
		return false, fmt.Errorf("attestation signature: %w", err)
	}

	return ed25519.Verify(tenantRing.PublicKey(), msg, sig), nil
}

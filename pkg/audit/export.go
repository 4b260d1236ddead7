package audit

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zerebrox/braincore/pkg/ledger"
)

var (
	// ErrEmptyTenantID is returned when tenant ID is empty.
	ErrEmptyTenantID = errors.New("audit: tenant_id must not be empty")
	// ErrStoreNotConfigured is returned when export is invoked without a backing ledger.
	ErrStoreNotConfigured = errors.New("audit: ledger not configured (fail-closed)")
)

// ExportRequest defines what to export.
type ExportRequest struct {
	TenantID string `json:"tenant_id"`
}

// Exporter builds evidence packs from a tenant's ledger stream.
type Exporter struct {
	store *ledger.Store
	clock func() time.Time
}

func NewExporter(s *ledger.Store) *Exporter {
	return &Exporter{store: s, clock: time.Now}
}

// GeneratePack creates a zip containing the tenant's event stream and a
// manifest carrying the chain head. The chain is verified before export so
// a pack is never produced from a corrupted stream.
func (e *Exporter) GeneratePack(req ExportRequest) ([]byte, string, error) {
	if req.TenantID == "" {
		return nil, "", ErrEmptyTenantID
	}
	if e.store == nil {
		return nil, "", ErrStoreNotConfigured
	}
	if err := e.store.VerifyChain(req.TenantID); err != nil {
		return nil, "", fmt.Errorf("audit: chain verification failed: %w", err)
	}

	events := e.store.ReadByTenant(req.TenantID)
	eventsJSON, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, "", err
	}

	manifest := map[string]interface{}{
		"tenant_id":    req.TenantID,
		"generated_at": e.clock().UTC(),
		"event_count":  len(events),
		"chain_head":   e.store.HeadID(req.TenantID),
	}
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("audit: failed to marshal manifest: %w", err)
	}

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	f, err := w.Create("events.json")
	if err != nil {
		return nil, "", err
	}
	_, _ = f.Write(eventsJSON)

	f, err = w.Create("manifest.json")
	if err != nil {
		return nil, "", err
	}
	_, _ = f.Write(manifestJSON)

	f, err = w.Create("README.txt")
	if err != nil {
		return nil, "", err
	}
	_, _ = fmt.Fprintf(f, "Evidence Pack for Tenant %s\nGenerated at %s\n", req.TenantID, e.clock().UTC())

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	zipBytes := buf.Bytes()
	hash := sha256.Sum256(zipBytes)
	checksum := hex.EncodeToString(hash[:])

	return zipBytes, checksum, nil
}

package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zerebrox/braincore/pkg/ledger"
)

// LedgerLogger records audit events as gate_audit entries in the tenant's
// hash-chained ledger, so denials carry the same integrity guarantees as
// the decisions they prevented.
type LedgerLogger struct {
	store *ledger.Store
	clock func() time.Time
}

func NewLedgerLogger(s *ledger.Store) *LedgerLogger {
	return &LedgerLogger{store: s, clock: time.Now}
}

func (l *LedgerLogger) Record(tenantID, actorID string, eventType EventType, action string, reasons []string, metadata map[string]interface{}) error {
	if l.store == nil {
		return fmt.Errorf("fail-closed: audit ledger not configured")
	}
	if tenantID == "" {
		return fmt.Errorf("audit entry requires a tenant id")
	}
	if actorID == "" {
		actorID = "system"
	}

	evt := Event{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		ActorID:   actorID,
		Type:      eventType,
		Action:    action,
		Reasons:   reasons,
		Timestamp: l.clock().UTC(),
		Metadata:  metadata,
	}

	_, err := l.store.AppendRecord(tenantID, ledger.EventGateAudit, actorID, evt)
	return err
}

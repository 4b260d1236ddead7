package arbiter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerebrox/braincore/pkg/contracts"
)

func TestArbitrateDefaultSafety(t *testing.T) {
	res := ArbitrateCommand(ArbitrationInput{
		DeterministicAction:      contracts.ActionPaymentHold,
		AIRecommendedAction:      contracts.ActionAutoPay,
		HardPolicyAllowedActions: []contracts.ActionType{contracts.ActionPaymentHold},
	})
	assert.Equal(t, contracts.ActionPaymentHold, res.FinalAction)
	assert.True(t, res.AIDiscarded)
	assert.NotEmpty(t, res.Reason)
}

func TestArbitrateAcceptsAllowedAISuggestion(t *testing.T) {
	res := ArbitrateCommand(ArbitrationInput{
		DeterministicAction:      contracts.ActionRequestReview,
		AIRecommendedAction:      contracts.ActionMatchInvoice,
		HardPolicyAllowedActions: []contracts.ActionType{contracts.ActionMatchInvoice, contracts.ActionRequestReview},
	})
	assert.Equal(t, contracts.ActionMatchInvoice, res.FinalAction)
	assert.False(t, res.AIDiscarded)
}

func TestArbitrateNoAISuggestion(t *testing.T) {
	res := ArbitrateCommand(ArbitrationInput{
		DeterministicAction: contracts.ActionPaymentHold,
	})
	assert.Equal(t, contracts.ActionPaymentHold, res.FinalAction)
	assert.False(t, res.AIDiscarded)
}

func TestArbitrateAgreement(t *testing.T) {
	res := ArbitrateCommand(ArbitrationInput{
		DeterministicAction: contracts.ActionAutoPay,
		AIRecommendedAction: contracts.ActionAutoPay,
	})
	assert.Equal(t, contracts.ActionAutoPay, res.FinalAction)
	assert.False(t, res.AIDiscarded)
}

func TestCompareDualPathOutputs(t *testing.T) {
	minor := CompareDualPathOutputs(DualPathInput{
		DeterministicScore: 0.80, AIScore: 0.78, Tolerance: 0.05,
	})
	assert.Equal(t, VerdictMinorVariance, minor.Verdict)
	assert.False(t, minor.Escalated)

	review := CompareDualPathOutputs(DualPathInput{
		DeterministicScore: 0.80, AIScore: 0.50, Tolerance: 0.05,
	})
	assert.Equal(t, VerdictHumanReview, review.Verdict)
	assert.True(t, review.Escalated)
	assert.InDelta(t, 0.30, review.Delta, 1e-9)
}

const validHash = "sha256:" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func validResponse() *contracts.AIResponse {
	return &contracts.AIResponse{
		TenantID:    "t1",
		ContextHash: validHash,
		Model:       "suggestor-v2",
		GeneratedAt: "2026-03-01T12:00:00Z",
		Suggestions: []contracts.Suggestion{
			{Action: contracts.ActionPaymentHold, Confidence: 0.9},
		},
		AllowedActions: []contracts.ActionType{contracts.ActionPaymentHold},
	}
}

func TestSchemaGateAcceptsValidResponse(t *testing.T) {
	gate, err := NewSchemaGate()
	require.NoError(t, err)

	res := gate.EvaluateResponse(validResponse(), contracts.ActionPaymentHold)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestSchemaGateFallsBackOnMalformedJSON(t *testing.T) {
	gate, err := NewSchemaGate()
	require.NoError(t, err)

	res := gate.Evaluate([]byte(`{"tenantId": `), contracts.ActionRequestReview)
	assert.False(t, res.Valid)
	assert.Equal(t, contracts.ActionRequestReview, res.FallbackAction)
}

func TestSchemaGateFallsBackOnSchemaViolation(t *testing.T) {
	gate, err := NewSchemaGate()
	require.NoError(t, err)

	bad := validResponse()
	bad.Suggestions = nil // schema requires at least one suggestion

	res := gate.EvaluateResponse(bad, contracts.ActionPaymentHold)
	assert.False(t, res.Valid)
	assert.Equal(t, contracts.ActionPaymentHold, res.FallbackAction)
	require.NotEmpty(t, res.Errors)
	assert.True(t, strings.Contains(res.Errors[0], "suggestions") || len(res.Errors) > 0)
}

func TestSchemaGateRejectsOutOfRangeConfidence(t *testing.T) {
	gate, err := NewSchemaGate()
	require.NoError(t, err)

	bad := validResponse()
	bad.Suggestions[0].Confidence = 1.7

	res := gate.EvaluateResponse(bad, contracts.ActionPaymentHold)
	assert.False(t, res.Valid)
}

func TestSchemaGateRejectsBadContextHash(t *testing.T) {
	gate, err := NewSchemaGate()
	require.NoError(t, err)

	bad := validResponse()
	bad.ContextHash = "sha256:short"

	res := gate.EvaluateResponse(bad, contracts.ActionPaymentHold)
	assert.False(t, res.Valid)
}

func TestSchemaGateNilResponse(t *testing.T) {
	gate, err := NewSchemaGate()
	require.NoError(t, err)

	res := gate.EvaluateResponse(nil, contracts.ActionEscalate)
	assert.False(t, res.Valid)
	assert.Equal(t, contracts.ActionEscalate, res.FallbackAction)
}

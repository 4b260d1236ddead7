package arbiter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/zerebrox/braincore/pkg/contracts"
)

// aiResponseSchema locks the shape of any model output the brain will look
// at. Anything outside this shape falls back to the deterministic action.
const aiResponseSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["tenantId", "contextHash", "model", "generatedAt", "suggestions", "mutationIntent", "allowedActions"],
  "additionalProperties": false,
  "properties": {
    "tenantId": {"type": "string", "minLength": 1},
    "contextHash": {"type": "string", "pattern": "^sha256:[0-9a-f]{64}$"},
    "model": {"type": "string", "minLength": 1},
    "generatedAt": {"type": "string", "minLength": 1},
    "mutationIntent": {"type": "boolean"},
    "allowedActions": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "suggestions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["action", "confidence"],
        "properties": {
          "action": {"type": "string", "minLength": 1},
          "confidence": {"type": "number", "minimum": 0, "maximum": 1},
          "rationale": {"type": "string"},
          "params": {"type": "object"}
        },
        "additionalProperties": false
      }
    }
  }
}`

// SchemaGate validates AI responses against the locked schema.
type SchemaGate struct {
	schema *jsonschema.Schema
}

// NewSchemaGate compiles the locked schema. Compilation failure is a
// programming error surfaced at construction, not at evaluation.
func NewSchemaGate() (*SchemaGate, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	const url = "https://zerebrox.schemas.local/brain/ai_response.schema.json"
	if err := c.AddResource(url, strings.NewReader(aiResponseSchema)); err != nil {
		return nil, fmt.Errorf("ai response schema load failed: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("ai response schema compile failed: %w", err)
	}
	return &SchemaGate{schema: compiled}, nil
}

// GateResult is the validation outcome. A malformed AI payload is never an
// error to the caller: FallbackAction carries the safe deterministic choice.
type GateResult struct {
	Valid          bool                 `json:"valid"`
	Errors         []string             `json:"errors,omitempty"`
	FallbackAction contracts.ActionType `json:"fallbackDeterministicAction,omitempty"`
}

// Evaluate validates raw model output. On any failure the result names the
// deterministic fallback so the system never blocks on a malformed payload.
func (g *SchemaGate) Evaluate(raw []byte, fallback contracts.ActionType) GateResult {
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return GateResult{
			Valid:          false,
			Errors:         []string{fmt.Sprintf("not valid json: %v", err)},
			FallbackAction: fallback,
		}
	}

	if err := g.schema.Validate(generic); err != nil {
		return GateResult{
			Valid:          false,
			Errors:         []string{err.Error()},
			FallbackAction: fallback,
		}
	}
	return GateResult{Valid: true}
}

// EvaluateResponse validates an already-decoded response structure.
func (g *SchemaGate) EvaluateResponse(resp *contracts.AIResponse, fallback contracts.ActionType) GateResult {
	if resp == nil {
		return GateResult{
			Valid:          false,
			Errors:         []string{"nil response"},
			FallbackAction: fallback,
		}
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return GateResult{
			Valid:          false,
			Errors:         []string{fmt.Sprintf("response not serializable: %v", err)},
			FallbackAction: fallback,
		}
	}
	return g.Evaluate(raw, fallback)
}

package investigation

import (
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/clearcheck/investigator/pkg/errs"
)

// screeningRequestSchema validates the shape of an initiate_screening
// payload (spec §6) before it reaches the engine, grounded on the
// teacher's pkg/contracts/schemas convention of validating inbound
// requests against a JSON Schema rather than hand-rolled field checks.
const screeningRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["tenant_id", "entity_id", "jurisdiction", "role_category", "tier", "degree"],
	"properties": {
		"tenant_id": {"type": "string", "minLength": 1},
		"entity_id": {"type": "string", "minLength": 1},
		"jurisdiction": {"type": "string", "minLength": 1},
		"role_category": {"type": "string", "minLength": 1},
		"tier": {"type": "string", "enum": ["Standard", "Enhanced"]},
		"degree": {"type": "string", "enum": ["D1", "D2", "D3"]}
	}
}`

var screeningValidator = mustCompileSchema(screeningRequestSchema)

func mustCompileSchema(schema string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("screening_request.json", strings.NewReader(schema)); err != nil {
		panic("investigation: invalid embedded schema: " + err.Error())
	}
	sch, err := compiler.Compile("screening_request.json")
	if err != nil {
		panic("investigation: schema compile: " + err.Error())
	}
	return sch
}

// ValidateScreeningRequest checks req against the initiate_screening
// JSON Schema, returning a KindValidation *errs.Error describing every
// violation on failure. Identifiers are intentionally not schema-validated
// here: a subject may legitimately have a blank DOB or SSN pending
// collection, so absence is a downstream compliance/consent concern, not
// a malformed-request one.
func ValidateScreeningRequest(req ScreeningRequest) error {
	doc := map[string]any{
		"tenant_id":     req.TenantID,
		"entity_id":     req.EntityID,
		"jurisdiction":  req.Jurisdiction,
		"role_category": req.RoleCategory,
		"tier":          string(req.Tier),
		"degree":        string(req.Degree),
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return errs.Wrap(errs.KindSystem, "MARSHAL_FAILED", "marshal screening request for validation", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return errs.Wrap(errs.KindSystem, "UNMARSHAL_FAILED", "unmarshal screening request for validation", err)
	}

	if err := screeningValidator.Validate(v); err != nil {
		return errs.Wrap(errs.KindValidation, "INVALID_SCREENING_REQUEST", "screening request failed validation", err)
	}
	return nil
}

package compliance

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/decls"
	"github.com/google/cel-go/common/types"
)

// CELInput is the attribute set a rule's CEL expression may reference,
// mirroring the teacher's PolicyEngine variable set
// (action/resource/principal/context) narrowed to the compliance domain.
type CELInput struct {
	Jurisdiction string
	RoleCategory string
	CheckType    string
}

// CELEnv evaluates boolean CEL expressions that narrow when a
// ComplianceRule applies. Grounded on pkg/governance/policy_engine.go
// (PolicyEngine, a CEL env with compiled+cached programs) and
// pkg/kernel/celdp/evaluator.go (CELDPEvaluator.Evaluate).
type CELEnv struct {
	env     *cel.Env
	cache   map[string]cel.Program
}

// NewCELEnv builds the shared CEL environment used to evaluate rule_logic
// expressions.
func NewCELEnv() (*CELEnv, error) {
	env, err := cel.NewEnv(
		cel.VariableDecls(
			decls.NewVariable("jurisdiction", types.StringType),
			decls.NewVariable("role_category", types.StringType),
			decls.NewVariable("check_type", types.StringType),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("compliance: failed to create CEL env: %w", err)
	}
	return &CELEnv{env: env, cache: make(map[string]cel.Program)}, nil
}

// Applies compiles (with memoization) and evaluates expr against input,
// returning whether the rule it guards applies. Compilation or evaluation
// errors are returned to the caller, who per spec §4.A must fail closed
// (an erroring rule contributes nothing, never silently permits).
func (c *CELEnv) Applies(expr string, input CELInput) (bool, error) {
	prg, ok := c.cache[expr]
	if !ok {
		ast, issues := c.env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return false, fmt.Errorf("compliance: CEL compile failed: %w", issues.Err())
		}
		compiled, err := c.env.Program(ast)
		if err != nil {
			return false, fmt.Errorf("compliance: CEL program construction failed: %w", err)
		}
		c.cache[expr] = compiled
		prg = compiled
	}

	out, _, err := prg.Eval(map[string]any{
		"jurisdiction":  input.Jurisdiction,
		"role_category": input.RoleCategory,
		"check_type":    input.CheckType,
	})
	if err != nil {
		return false, fmt.Errorf("compliance: CEL eval failed: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("compliance: CEL expression %q did not evaluate to bool", expr)
	}
	return b, nil
}

// Package investigation composes the Provider Gateway, Cache, Entity
// Resolver, Knowledge Base, Planner, Assessor, SAR Controller, Degree
// Orchestrator, and Risk Pipeline into the end-to-end screening flow spec
// §2's data-flow paragraph describes: a screening request enters the
// Degree Orchestrator; D1 dispatches one SAR loop per phase; each SAR
// iteration runs Planner -> Provider Gateway (via Compliance gate and
// Cache) -> Assessor -> Confidence -> Iteration Controller; completed
// findings feed the Risk Aggregator; the result is a versioned Profile.
package investigation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clearcheck/investigator/pkg/audit"
	"github.com/clearcheck/investigator/pkg/auth"
	"github.com/clearcheck/investigator/pkg/cache"
	"github.com/clearcheck/investigator/pkg/compliance"
	"github.com/clearcheck/investigator/pkg/degree"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/errs"
	"github.com/clearcheck/investigator/pkg/knowledge"
	"github.com/clearcheck/investigator/pkg/planner"
	"github.com/clearcheck/investigator/pkg/profile"
	"github.com/clearcheck/investigator/pkg/sar"
)

// PermissionInitiateScreening is the permission a Principal must hold to
// run a screening (spec §7's authorization boundary on initiate_screening).
const PermissionInitiateScreening = "investigation:initiate_screening"

// tracer emits one span per SAR iteration (spec §4.M), grounded on the
// teacher's pkg/observability convention of tracing multi-step pipelines.
var tracer = otel.Tracer("github.com/clearcheck/investigator/pkg/investigation")

// EntityDirectory resolves an entity discovered during D2/D3 expansion back
// to the Identifiers a SAR loop needs to investigate it (spec §4.D/§4.I:
// network expansion investigates *resolved entities*, not raw connections).
type EntityDirectory interface {
	Identifiers(ctx context.Context, entityID string) (domain.Identifiers, error)
}

// Thresholds bundles the SAR controller's phase-specific cutoffs plus the
// degree driver's concurrency/network caps (internal/config.Config's
// investigation-specific knobs, assembled by the caller).
type Thresholds struct {
	Foundation         sar.Thresholds
	Standard           sar.Thresholds
	MaxParallel        int
	NetworkMaxEntities int
}

// Engine runs end-to-end screenings and monitoring reruns.
type Engine struct {
	cache      *cache.Resolver
	compliance *compliance.Evaluator
	sources    *planner.DataSourceResolver
	directory  EntityDirectory
	profiles   *profile.Manager
	audit      audit.Logger
	thresholds Thresholds
}

// New constructs an Engine from its fully-wired dependencies. cacheResolver
// fronts the Provider Gateway (spec §4.C), so the Gateway itself is not a
// direct Engine dependency.
func New(cacheResolver *cache.Resolver, complianceEval *compliance.Evaluator, sources *planner.DataSourceResolver, directory EntityDirectory, profiles *profile.Manager, auditLogger audit.Logger, thresholds Thresholds) *Engine {
	return &Engine{
		cache:      cacheResolver,
		compliance: complianceEval,
		sources:    sources,
		directory:  directory,
		profiles:   profiles,
		audit:      auditLogger,
		thresholds: thresholds,
	}
}

// ScreeningRequest carries a screening's immutable inputs (spec §6's
// inbound "initiate_screening" payload).
type ScreeningRequest struct {
	TenantID     string
	EntityID     string
	Identifiers  domain.Identifiers
	Jurisdiction string
	RoleCategory string
	Tier         domain.Tier
	Degree       domain.Degree
}

// Investigate drives the Degree Orchestrator -> SAR -> Risk Pipeline flow
// for one screening request and returns the resulting candidate Profile,
// not yet committed to a version (spec §4.K: commit is the caller's
// concern, since both an initial screening and a monitoring rerun produce
// a candidate the same way but commit it through different paths).
func (e *Engine) Investigate(ctx context.Context, req ScreeningRequest) (domain.Profile, error) {
	ruleset, err := e.compliance.Evaluate(ctx, req.Jurisdiction, req.RoleCategory)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("investigation: evaluate compliance ruleset: %w", err)
	}
	e.emitAudit(ctx, req.TenantID, audit.EventComplianceDecision, "evaluate_ruleset", req.EntityID, map[string]any{
		"jurisdiction":  req.Jurisdiction,
		"role_category": req.RoleCategory,
	})

	investigate := e.investigateFunc(req.TenantID, req.RoleCategory, ruleset)
	driver := degree.NewDriver(e.thresholds.MaxParallel, e.thresholds.NetworkMaxEntities, investigate)

	var outcome degree.Outcome
	if req.Degree == domain.DegreeD1 {
		d1, err := driver.RunD1(ctx, req.EntityID)
		if err != nil {
			return domain.Profile{}, fmt.Errorf("investigation: run D1: %w", err)
		}
		outcome = degree.Outcome{Degrees: []degree.DegreeResult{d1}}
	} else {
		outcome, err = driver.Run(ctx, req.EntityID, req.Tier)
		if err != nil {
			return domain.Profile{}, fmt.Errorf("investigation: run degree expansion: %w", err)
		}
	}

	findings := outcome.Findings()
	assessment := aggregateRisk(outcome)
	e.emitAudit(ctx, req.TenantID, audit.EventRiskAssessment, "aggregate", req.EntityID, map[string]any{
		"final_score":    assessment.FinalScore,
		"recommendation": assessment.Recommendation,
	})

	return domain.Profile{
		EntityID:    req.EntityID,
		Findings:    findings,
		RiskScore:   assessment.FinalScore,
		RiskLevel:   riskLevelFor(assessment.FinalScore),
		EntityGraph: entityGraphFrom(outcome),
		CreatedAt:   time.Now(),
	}, nil
}

// Run drives Investigate and commits the resulting candidate through the
// Profile Manager, returning the committed Profile plus the Delta against
// any prior version for the entity.
func (e *Engine) Run(ctx context.Context, req ScreeningRequest) (domain.Profile, *domain.ProfileDelta, error) {
	if err := ValidateScreeningRequest(req); err != nil {
		return domain.Profile{}, nil, err
	}
	if err := authorize(ctx, req.TenantID); err != nil {
		return domain.Profile{}, nil, err
	}
	candidate, err := e.Investigate(ctx, req)
	if err != nil {
		return domain.Profile{}, nil, err
	}
	committed, delta, err := e.profiles.Commit(ctx, candidate)
	if err != nil {
		return domain.Profile{}, nil, fmt.Errorf("investigation: commit profile: %w", err)
	}
	return committed, delta, nil
}

// authorize enforces the initiate_screening authorization boundary (spec
// §7): the context must carry a Principal, scoped to the same tenant as
// the request, holding PermissionInitiateScreening. Any failure is a
// KindPermission *errs.Error so callers can distinguish it from a
// validation or downstream provider/system failure.
func authorize(ctx context.Context, tenantID string) error {
	principal, err := auth.GetPrincipal(ctx)
	if err != nil {
		return errs.Wrap(errs.KindPermission, "NO_PRINCIPAL", "no principal in context", err)
	}
	if principal.GetTenantID() != tenantID {
		return errs.New(errs.KindPermission, "TENANT_MISMATCH", "principal's tenant does not match the requested tenant_id")
	}
	if !principal.HasPermission(PermissionInitiateScreening) {
		return errs.New(errs.KindPermission, "FORBIDDEN", "principal lacks "+PermissionInitiateScreening)
	}
	return nil
}

// investigateFunc closes over the engine's shared dependencies to produce a
// degree.InvestigateFunc: one full three-phase SAR investigation per
// entity, used for both D1 (primary subject) and D2/D3 (expanded entities).
func (e *Engine) investigateFunc(tenantID, roleCategory string, ruleset *compliance.Ruleset) degree.InvestigateFunc {
	return func(ctx context.Context, entityID string) (degree.EntityResult, error) {
		identifiers, err := e.identifiersFor(ctx, entityID)
		if err != nil {
			return degree.EntityResult{}, err
		}

		kb := knowledge.New()
		for _, phase := range []domain.Phase{domain.PhaseFoundation, domain.PhaseRecords, domain.PhaseIntelligence} {
			if err := e.runPhase(ctx, tenantID, phase, identifiers, ruleset, kb); err != nil {
				return degree.EntityResult{}, err
			}
		}

		facts := kb.Facts("")
		inconsistencies := kb.OpenInconsistencies()
		findings := findingsFromFacts(facts, inconsistencies, roleCategory)
		return degree.EntityResult{
			EntityID:        entityID,
			Findings:        findings,
			Inconsistencies: inconsistencies,
			NumericFacts:    numericValuesFromFacts(facts),
		}, nil
	}
}

// identifiersFor resolves entityID to Identifiers via the EntityDirectory,
// falling back to a bare EntityID-only lookup request when no directory is
// configured (e.g. in tests exercising a single-entity flow).
func (e *Engine) identifiersFor(ctx context.Context, entityID string) (domain.Identifiers, error) {
	if e.directory == nil {
		return domain.Identifiers{Name: entityID}, nil
	}
	return e.directory.Identifiers(ctx, entityID)
}

// runPhase executes one phase's SAR loop to termination: plan, resolve via
// cache+gateway, assess into facts/confidence, decide, refine until a
// terminal phase is reached.
func (e *Engine) runPhase(ctx context.Context, tenantID string, phase domain.Phase, subject domain.Identifiers, ruleset *compliance.Ruleset, kb *knowledge.Base) error {
	thresholds := e.thresholds.Standard
	if phase == domain.PhaseFoundation {
		thresholds = e.thresholds.Foundation
	}
	controller := sar.NewController(thresholds)

	queries := planner.Plan(phase, subject, ruleset, e.sources)
	issued := make(map[string]bool)
	for _, q := range queries {
		issued[q.ProviderID+"|"+string(q.Request.CheckType)] = true
	}

	iteration := 0
	prevConfidence := 0.0
	infoTypes := phaseInfoTypes(phase)

	for {
		iteration++
		iterCtx, span := tracer.Start(ctx, "investigation.sar_iteration", trace.WithAttributes(
			attribute.String("phase", string(phase)),
			attribute.Int("iteration", iteration),
		))
		newFactCount := e.executeQueries(iterCtx, tenantID, queries, kb)
		span.End()
		refreshGaps(infoTypes, kb)

		confidence := phaseConfidence(infoTypes, kb)
		gainRate := 0.0
		if len(queries) > 0 {
			gainRate = float64(newFactCount) / float64(len(queries))
		}

		decision := controller.Advance(sar.IterationResult{
			Iteration:      iteration,
			Confidence:     confidence,
			PrevConfidence: prevConfidence,
			InfoGainRate:   gainRate,
		}, len(kb.Facts("")))
		prevConfidence = confidence

		e.emitAudit(ctx, tenantID, audit.EventSARTransition, string(decision.Phase), string(phase), map[string]any{
			"iteration":  iteration,
			"confidence": confidence,
			"reason":     decision.Reason,
		})

		if controller.Phase().Terminal() {
			return nil
		}

		queries = planner.Refine(subject, kb.Snapshot(), ruleset, e.sources, issued)
		if len(queries) == 0 {
			return nil
		}
	}
}

// executeQueries resolves every planned query via the cache-fronted
// gateway and folds successful results into facts, returning how many new
// facts were added (used for the info-gain-rate signal).
func (e *Engine) executeQueries(ctx context.Context, tenantID string, queries []planner.Query, kb *knowledge.Base) int {
	before := len(kb.Facts(""))
	for _, q := range queries {
		resolved, err := e.cache.Resolve(ctx, q.ProviderID, q.Request)
		e.emitAudit(ctx, tenantID, audit.EventProviderCall, "resolve", q.ProviderID, map[string]any{
			"check_type": q.Request.CheckType,
			"error":      errString(err),
		})
		if err != nil || resolved == nil {
			continue
		}
		kb.AddFact(factFromResult(resolved.Result))
	}
	return len(kb.Facts("")) - before
}

func (e *Engine) emitAudit(ctx context.Context, tenantID string, eventType audit.EventType, action, resource string, metadata map[string]any) {
	if e.audit == nil {
		return
	}
	metadata["tenant_id"] = tenantID
	_ = e.audit.Record(ctx, eventType, action, resource, metadata)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

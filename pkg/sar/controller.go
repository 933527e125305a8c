// Package sar implements the Search-Assess-Refine Iteration Controller
// (spec §4.H): a small absorbing state machine deciding, at the end of
// each iteration, whether to terminate or continue refining.
package sar

import "fmt"

// Phase is a SAR loop phase. search/assess/refine are transient; complete,
// capped, and diminished are absorbing terminal states (spec §4.H).
type Phase string

const (
	PhaseSearch     Phase = "search"
	PhaseAssess     Phase = "assess"
	PhaseRefine     Phase = "refine"
	PhaseComplete   Phase = "complete"
	PhaseCapped     Phase = "capped"
	PhaseDiminished Phase = "diminished"
)

// Reason names why a terminal Phase was reached.
type Reason string

const (
	ReasonConfidenceThresholdMet Reason = "confidence_threshold_met"
	ReasonMaxIterationsReached   Reason = "max_iterations_reached"
	ReasonDiminishingReturns     Reason = "diminishing_returns"
	ReasonNone                   Reason = ""
)

func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseCapped || p == PhaseDiminished
}

// Thresholds parameterizes the controller per spec §4.H's table.
type Thresholds struct {
	ConfidenceThreshold float64
	MaxIterations       int
	MinGainRate         float64
}

// FoundationThresholds are the defaults for the foundation phase.
var FoundationThresholds = Thresholds{ConfidenceThreshold: 0.90, MaxIterations: 4, MinGainRate: 0.10}

// StandardThresholds are the defaults for records/intelligence phases.
var StandardThresholds = Thresholds{ConfidenceThreshold: 0.85, MaxIterations: 3, MinGainRate: 0.10}

// Decision is the outcome of evaluating one iteration's results.
type Decision struct {
	Phase  Phase
	Reason Reason
}

// IterationResult is the input to Decide: everything the controller needs
// to evaluate the four-step ordering from spec §4.H.
type IterationResult struct {
	Iteration      int
	Confidence     float64
	PrevConfidence float64
	InfoGainRate   float64
}

// Decide applies spec §4.H's exact four-step ordering:
//  1. confidence >= threshold -> complete / confidence_threshold_met
//  2. iteration >= max_iterations -> capped / max_iterations_reached
//  3. iteration >= 2 and (info_gain_rate < min_gain or delta_confidence < 0.05) -> diminished / diminishing_returns
//  4. otherwise -> refine
func Decide(r IterationResult, t Thresholds) Decision {
	if r.Confidence >= t.ConfidenceThreshold {
		return Decision{Phase: PhaseComplete, Reason: ReasonConfidenceThresholdMet}
	}
	if r.Iteration >= t.MaxIterations {
		return Decision{Phase: PhaseCapped, Reason: ReasonMaxIterationsReached}
	}
	if r.Iteration >= 2 {
		deltaConfidence := r.Confidence - r.PrevConfidence
		if r.InfoGainRate < t.MinGainRate || deltaConfidence < 0.05 {
			return Decision{Phase: PhaseDiminished, Reason: ReasonDiminishingReturns}
		}
	}
	return Decision{Phase: PhaseRefine, Reason: ReasonNone}
}

// Transition is one step of the SAR loop, suitable for audit emission
// (spec §4.H: "Every transition emits an audit event with (old_phase,
// new_phase, reason, iteration, cumulative_facts)").
type Transition struct {
	OldPhase        Phase
	NewPhase        Phase
	Reason          Reason
	Iteration       int
	CumulativeFacts int
}

func (t Transition) String() string {
	return fmt.Sprintf("%s -> %s (reason=%s iteration=%d facts=%d)", t.OldPhase, t.NewPhase, t.Reason, t.Iteration, t.CumulativeFacts)
}

// Controller drives one InformationType's SAR loop, recording every
// Transition for audit.
type Controller struct {
	thresholds  Thresholds
	phase       Phase
	transitions []Transition
}

// NewController constructs a Controller starting in PhaseSearch.
func NewController(thresholds Thresholds) *Controller {
	return &Controller{thresholds: thresholds, phase: PhaseSearch}
}

// Phase returns the controller's current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Transitions returns every recorded Transition so far.
func (c *Controller) Transitions() []Transition {
	out := make([]Transition, len(c.transitions))
	copy(out, c.transitions)
	return out
}

// Advance evaluates one completed iteration's result and moves the
// controller to its next phase, recording the transition. Calling Advance
// on an already-terminal controller is a no-op returning the existing
// terminal Decision.
func (c *Controller) Advance(r IterationResult, cumulativeFacts int) Decision {
	if c.phase.Terminal() {
		return Decision{Phase: c.phase}
	}
	decision := Decide(r, c.thresholds)
	c.transitions = append(c.transitions, Transition{
		OldPhase:        c.phase,
		NewPhase:        decision.Phase,
		Reason:          decision.Reason,
		Iteration:       r.Iteration,
		CumulativeFacts: cumulativeFacts,
	})
	c.phase = decision.Phase
	return decision
}

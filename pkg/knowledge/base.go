// Package knowledge implements the per-investigation Knowledge Base (spec
// §4.E): a monotonically growing set of Facts and Inconsistencies with
// derived, precedence-resolved views, and a point-in-time snapshot used to
// decide SAR loop continuation.
package knowledge

import (
	"sort"
	"sync"

	"github.com/clearcheck/investigator/pkg/domain"
)

// Gap names an InformationType the Knowledge Base has not yet gathered
// sufficient evidence for, used by the Query Planner's refinement pass
// (spec §4.F).
type Gap struct {
	InfoType domain.InformationType
	Reason   string
}

// Base is the append-only fact store for a single investigation. Facts and
// Inconsistencies only ever grow; nothing is mutated or removed (spec
// §4.E: "monotonic").
type Base struct {
	mu sync.RWMutex

	facts           []domain.Fact
	inconsistencies []domain.Inconsistency
	gaps            map[domain.InformationType]Gap
}

// New constructs an empty Base.
func New() *Base {
	return &Base{gaps: make(map[domain.InformationType]Gap)}
}

// AddFact appends a new Fact.
func (b *Base) AddFact(f domain.Fact) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.facts = append(b.facts, f)
}

// AddInconsistency appends a newly detected Inconsistency.
func (b *Base) AddInconsistency(i domain.Inconsistency) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inconsistencies = append(b.inconsistencies, i)
}

// SetGap records or clears a coverage gap for infoType. Passing a zero-value
// Gap (empty Reason) clears it.
func (b *Base) SetGap(infoType domain.InformationType, gap Gap) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gap.Reason == "" {
		delete(b.gaps, infoType)
		return
	}
	gap.InfoType = infoType
	b.gaps[infoType] = gap
}

// Facts returns a defensive copy of every Fact gathered so far, optionally
// filtered to infoType when non-empty.
func (b *Base) Facts(infoType domain.InformationType) []domain.Fact {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Fact, 0, len(b.facts))
	for _, f := range b.facts {
		if infoType != "" && f.InfoType != infoType {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Inconsistencies returns a defensive copy of every detected Inconsistency.
func (b *Base) Inconsistencies() []domain.Inconsistency {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.Inconsistency, len(b.inconsistencies))
	copy(out, b.inconsistencies)
	return out
}

// OpenInconsistencies returns Inconsistencies still in ReconciliationOpen
// status.
func (b *Base) OpenInconsistencies() []domain.Inconsistency {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []domain.Inconsistency
	for _, i := range b.inconsistencies {
		if i.Status == domain.ReconciliationOpen {
			out = append(out, i)
		}
	}
	return out
}

// Gaps returns every currently open coverage gap, sorted by InfoType for
// determinism.
func (b *Base) Gaps() []Gap {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Gap, 0, len(b.gaps))
	for _, g := range b.gaps {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InfoType < out[j].InfoType })
	return out
}

// Snapshot is a point-in-time, immutable view of the Knowledge Base
// consumed by the SAR Iteration Controller's stop/continue decision.
type Snapshot struct {
	Facts           []domain.Fact
	Inconsistencies []domain.Inconsistency
	Gaps            []Gap
}

// Snapshot captures the current state of the Base.
func (b *Base) Snapshot() Snapshot {
	return Snapshot{
		Facts:           b.Facts(""),
		Inconsistencies: b.Inconsistencies(),
		Gaps:            b.Gaps(),
	}
}

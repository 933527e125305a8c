package profile

import "github.com/clearcheck/investigator/pkg/domain"

// ComputeDelta diffs old against next by Finding.ID: findings present only
// in next are new, findings present only in old are resolved, and findings
// present in both but with a changed Severity or Description are changed
// (spec §4.K.2). Connection changes are the symmetric difference of the two
// EntityGraphs' edges, keyed by (A,B,Type).
func ComputeDelta(old, next domain.Profile) domain.ProfileDelta {
	oldByID := indexFindings(old.Findings)
	nextByID := indexFindings(next.Findings)

	delta := domain.ProfileDelta{
		EntityID:   next.EntityID,
		OldVersion: old.Version,
		NewVersion: next.Version,
	}

	for id, f := range nextByID {
		prior, existed := oldByID[id]
		if !existed {
			delta.NewFindings = append(delta.NewFindings, f)
			continue
		}
		if prior.Severity != f.Severity || prior.Description != f.Description {
			delta.ChangedFindings = append(delta.ChangedFindings, f)
		}
	}
	for id, f := range oldByID {
		if _, stillPresent := nextByID[id]; !stillPresent {
			delta.ResolvedFindings = append(delta.ResolvedFindings, f)
		}
	}

	delta.RiskScoreChange = next.RiskScore - old.RiskScore
	delta.ConnectionChanges = edgeDiff(old.EntityGraph.Edges, next.EntityGraph.Edges)
	// network_expansion counts added edges only, not removed ones.
	signalInput := delta
	signalInput.ConnectionChanges = nil
	oldEdges := make(map[[3]string]bool, len(old.EntityGraph.Edges))
	for _, e := range old.EntityGraph.Edges {
		oldEdges[edgeKey(e)] = true
	}
	for _, e := range delta.ConnectionChanges {
		if !oldEdges[edgeKey(e)] {
			signalInput.ConnectionChanges = append(signalInput.ConnectionChanges, e)
		}
	}
	delta.EvolutionSignals = DetectSignals(signalInput, next.Findings)

	return delta
}

func indexFindings(findings []domain.Finding) map[string]domain.Finding {
	out := make(map[string]domain.Finding, len(findings))
	for _, f := range findings {
		out[f.ID] = f
	}
	return out
}

func edgeKey(e domain.Edge) [3]string {
	a, b := e.A, e.B
	if b < a {
		a, b = b, a
	}
	return [3]string{a, b, string(e.Type)}
}

// edgeDiff returns edges that appear in next but not old, or in old but not
// next — the symmetric difference, treating (A,B) as unordered.
func edgeDiff(old, next []domain.Edge) []domain.Edge {
	oldSet := make(map[[3]string]bool, len(old))
	for _, e := range old {
		oldSet[edgeKey(e)] = true
	}
	nextSet := make(map[[3]string]bool, len(next))
	for _, e := range next {
		nextSet[edgeKey(e)] = true
	}

	var changes []domain.Edge
	for _, e := range next {
		if !oldSet[edgeKey(e)] {
			changes = append(changes, e)
		}
	}
	for _, e := range old {
		if !nextSet[edgeKey(e)] {
			changes = append(changes, e)
		}
	}
	return changes
}

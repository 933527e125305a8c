package degree

import (
	"context"

	"github.com/clearcheck/investigator/pkg/domain"
)

// Outcome is the consolidated result of running every permitted degree for
// one investigation, ready to be handed to the Risk Pipeline (spec §4.I:
// "On completion of all degrees, findings are consolidated and passed to
// §4.J").
type Outcome struct {
	Degrees []DegreeResult
}

// Findings flattens every EntityResult's Findings across all degrees.
func (o Outcome) Findings() []domain.Finding {
	var out []domain.Finding
	for _, d := range o.Degrees {
		for _, r := range d.Results {
			out = append(out, r.Findings...)
		}
	}
	return out
}

// Inconsistencies flattens every EntityResult's open Inconsistencies
// across all degrees, feeding the Anomaly Detector's systematic-pattern
// and deception-indicator checks (spec §4.J.3).
func (o Outcome) Inconsistencies() []domain.Inconsistency {
	var out []domain.Inconsistency
	for _, d := range o.Degrees {
		for _, r := range d.Results {
			out = append(out, r.Inconsistencies...)
		}
	}
	return out
}

// NumericFacts flattens every EntityResult's numeric fact values across
// all degrees, feeding the Anomaly Detector's statistical-outlier check
// (spec §4.J.3(a)).
func (o Outcome) NumericFacts() []float64 {
	var out []float64
	for _, d := range o.Degrees {
		for _, r := range d.Results {
			out = append(out, r.NumericFacts...)
		}
	}
	return out
}

// ConnectedEntities returns every entity investigated at D2/D3 (the
// primary D1 subject is excluded, since it is the subject, not one of its
// connections) alongside the ConnectionType linking it to its parent, for
// the Connection Analyzer (spec §4.J.5).
func (o Outcome) ConnectedEntities() []ConnectedEntity {
	typeByEntity := make(map[string]domain.ConnectionType)
	for _, d := range o.Degrees {
		for _, r := range d.Results {
			for _, c := range r.Connections {
				typeByEntity[c.EntityID] = c.Type
			}
		}
	}

	var out []ConnectedEntity
	for i, d := range o.Degrees {
		if i == 0 {
			continue // D1 is the primary subject, not a connection
		}
		for _, r := range d.Results {
			out = append(out, ConnectedEntity{
				EntityID:       r.EntityID,
				ConnectionType: typeByEntity[r.EntityID],
				Findings:       r.Findings,
			})
		}
	}
	return out
}

// ConnectedEntity is one network neighbor's findings and the connection
// linking it to its parent entity.
type ConnectedEntity struct {
	EntityID       string
	ConnectionType domain.ConnectionType
	Findings       []domain.Finding
}

// Run drives D1, then D2, then D3 (only under tier == Enhanced),
// extracting each degree's surfaced Connections to feed the next.
func (d *Driver) Run(ctx context.Context, primaryEntityID string, tier domain.Tier) (Outcome, error) {
	d1, err := d.RunD1(ctx, primaryEntityID)
	if err != nil {
		return Outcome{}, err
	}
	outcome := Outcome{Degrees: []DegreeResult{d1}}

	d2Connections := connectionsFrom(d1)
	if len(d2Connections) == 0 {
		return outcome, nil
	}
	d2 := d.ExpandDegree(ctx, D2, d2Connections)
	outcome.Degrees = append(outcome.Degrees, d2)

	if tier != domain.TierEnhanced {
		return outcome, nil
	}
	d3Connections := connectionsFrom(d2)
	if len(d3Connections) == 0 {
		return outcome, nil
	}
	d3 := d.ExpandDegree(ctx, D3, d3Connections)
	outcome.Degrees = append(outcome.Degrees, d3)

	return outcome, nil
}

func connectionsFrom(dr DegreeResult) []Connection {
	var out []Connection
	for _, r := range dr.Results {
		if r.Degraded {
			continue
		}
		out = append(out, r.Connections...)
	}
	return out
}

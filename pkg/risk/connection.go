package risk

import "github.com/clearcheck/investigator/pkg/domain"

// connectionTypeWeight scales how much a connection type contributes to
// network risk (spec §4.J.5: "scores network risk from connected
// entities' findings and connection types").
var connectionTypeWeight = map[domain.ConnectionType]float64{
	domain.ConnectionEmployer:  0.5,
	domain.ConnectionAssociate: 1.0,
	domain.ConnectionAddress:   0.3,
}

// ConnectedEntity is one network neighbor's findings and the connection
// linking it to the subject.
type ConnectedEntity struct {
	ConnectionType domain.ConnectionType
	Findings       []domain.Finding
}

// ConnectionAnalyzer scores the network-risk adjustment contributed by a
// subject's connected entities.
type ConnectionAnalyzer struct{}

// NewConnectionAnalyzer constructs a ConnectionAnalyzer.
func NewConnectionAnalyzer() *ConnectionAnalyzer { return &ConnectionAnalyzer{} }

// Score sums each connected entity's finding severity weights, scaled by
// the connection type's weight, and caps the result so network risk alone
// cannot dominate the final score (spec §4.J.6 folds this in as Δnetwork).
func (c *ConnectionAnalyzer) Score(connections []ConnectedEntity) float64 {
	total := 0.0
	for _, conn := range connections {
		weight := connectionTypeWeight[conn.ConnectionType]
		if weight == 0 {
			weight = 0.2
		}
		for _, f := range conn.Findings {
			total += weight * domain.SeverityWeight[f.Severity]
		}
	}
	const cap = 25.0
	if total > cap {
		total = cap
	}
	return total
}

package profile

import "github.com/clearcheck/investigator/pkg/domain"

// Evolution signal names (spec §4.K.3).
const (
	SignalRiskEscalation   = "risk_escalation"
	SignalNetworkExpansion = "network_expansion"
	SignalCriticalSurge    = "critical_findings_surge"
)

// maxRiskScore is the upper bound of domain.ComprehensiveRiskAssessment's
// final_score scale; risk_escalation is defined relative to it.
const maxRiskScore = 100.0

// riskEscalationFraction, networkExpansionThreshold, and
// criticalSurgeThreshold are the spec §4.K.3 cutoffs.
const (
	riskEscalationFraction    = 0.30
	networkExpansionThreshold = 10
	criticalSurgeThreshold    = 3
)

// DetectSignals evaluates delta (with RiskScoreChange and ConnectionChanges
// already populated) against nextFindings to flag the three evolution
// signals named in spec §4.K.3: a risk score jump exceeding 30% of the
// scale, more than 10 new connections, or 3+ new CRITICAL findings.
// Every edge in delta.ConnectionChanges counts as a new connection;
// ComputeDelta passes only the edges added since the previous version.
func DetectSignals(delta domain.ProfileDelta, nextFindings []domain.Finding) []string {
	var signals []string

	if delta.RiskScoreChange > riskEscalationFraction*maxRiskScore {
		signals = append(signals, SignalRiskEscalation)
	}

	newConnections := 0
	for range delta.ConnectionChanges {
		newConnections++
	}
	if newConnections > networkExpansionThreshold {
		signals = append(signals, SignalNetworkExpansion)
	}

	criticalCount := 0
	for _, f := range delta.NewFindings {
		if f.Severity == domain.SeverityCritical {
			criticalCount++
		}
	}
	if criticalCount >= criticalSurgeThreshold {
		signals = append(signals, SignalCriticalSurge)
	}

	return signals
}

package monitoring

import (
	"context"
	"time"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/profile"
)

// AlertSeverity is the urgency assigned to an emitted Alert.
type AlertSeverity string

const (
	AlertSeverityHigh   AlertSeverity = "high"
	AlertSeverityMedium AlertSeverity = "medium"
)

// Alert is emitted when a monitoring rerun's delta carries evolution
// signals (spec §4.L / example §7.6).
type Alert struct {
	EntityID  string
	Severity  AlertSeverity
	Signals   []string
	Delta     domain.ProfileDelta
	EmittedAt time.Time
}

// AlertSink publishes an Alert, e.g. onto the audit log (spec §8: "the ...
// monitoring scheduler... emit events").
type AlertSink interface {
	Emit(ctx context.Context, alert Alert) error
}

// severityFor ranks risk_escalation and critical_findings_surge as high
// severity (spec §7.6's worked example emits severity=high for exactly this
// pair); any other signal alone is medium.
func severityFor(signals []string) AlertSeverity {
	for _, s := range signals {
		if s == profile.SignalRiskEscalation || s == profile.SignalCriticalSurge {
			return AlertSeverityHigh
		}
	}
	return AlertSeverityMedium
}

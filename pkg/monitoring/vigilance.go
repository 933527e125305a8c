// Package monitoring implements the Monitoring Scheduler + Vigilance
// Manager (spec §4.L): periodic re-investigation, vigilance-level
// assignment, delta computation against a baseline profile, and alert
// emission on evolution signals.
package monitoring

import "time"

// RoleCategory classifies a subject's role for the default vigilance
// mapping (spec §4.L: "role_category default mapped from
// {government->V2, energy->V3, finance->V2, other->V1}").
type RoleCategory string

const (
	RoleGovernment RoleCategory = "government"
	RoleEnergy     RoleCategory = "energy"
	RoleFinance    RoleCategory = "finance"
	RoleOther      RoleCategory = "other"
)

// VigilanceLevel is the monitoring cadence tier assigned to an entity.
type VigilanceLevel string

const (
	VigilanceV1 VigilanceLevel = "V1"
	VigilanceV2 VigilanceLevel = "V2"
	VigilanceV3 VigilanceLevel = "V3"
)

// Interval maps a VigilanceLevel to its rerun cadence (spec §4.L): V1
// annual full rerun, V2 monthly delta-only, V3 bi-monthly full rerun.
func Interval(level VigilanceLevel) time.Duration {
	switch level {
	case VigilanceV2:
		return 30 * 24 * time.Hour
	case VigilanceV3:
		return 15 * 24 * time.Hour
	default:
		return 365 * 24 * time.Hour
	}
}

// FullRerun reports whether level requires a full D1 rerun rather than a
// delta-only pass restricted to high-risk sources.
func FullRerun(level VigilanceLevel) bool {
	return level != VigilanceV2
}

var defaultVigilance = map[RoleCategory]VigilanceLevel{
	RoleGovernment: VigilanceV2,
	RoleEnergy:     VigilanceV3,
	RoleFinance:    VigilanceV2,
	RoleOther:      VigilanceV1,
}

// rank orders vigilance levels from least (V1) to most (V3) vigilant, so
// escalation can be expressed as "at least" a given level.
var rank = map[VigilanceLevel]int{VigilanceV1: 1, VigilanceV2: 2, VigilanceV3: 3}

// DetermineVigilance applies the default role-category mapping and then
// escalates it based on currentRiskScore: risk >= 75 forces V3, risk >= 50
// forces at least V2 (spec §4.L). The result never de-escalates below the
// role-category default.
func DetermineVigilance(role RoleCategory, currentRiskScore float64) VigilanceLevel {
	level, ok := defaultVigilance[role]
	if !ok {
		level = VigilanceV1
	}

	escalated := level
	switch {
	case currentRiskScore >= 75:
		escalated = VigilanceV3
	case currentRiskScore >= 50:
		escalated = VigilanceV2
	}

	if rank[escalated] > rank[level] {
		return escalated
	}
	return level
}

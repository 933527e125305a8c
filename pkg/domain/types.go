// Package domain holds the core data model shared across the investigation
// engine's components (spec §3). Types here are deliberately plain data:
// behavior lives in the package that owns the corresponding invariant.
package domain

import "time"

// Tier controls available providers, freshness strictness, and D3
// availability.
type Tier string

const (
	TierStandard Tier = "Standard"
	TierEnhanced Tier = "Enhanced"
)

// Degree is the depth of network expansion from the primary subject.
type Degree string

const (
	DegreeD1 Degree = "D1"
	DegreeD2 Degree = "D2"
	DegreeD3 Degree = "D3"
)

// InformationType is a closed enumeration partitioned into three phases.
type InformationType string

const (
	InfoIdentity   InformationType = "identity"
	InfoEmployment InformationType = "employment"
	InfoEducation  InformationType = "education"

	InfoCriminal   InformationType = "criminal"
	InfoCivil      InformationType = "civil"
	InfoFinancial  InformationType = "financial"
	InfoLicenses   InformationType = "licenses"
	InfoRegulatory InformationType = "regulatory"
	InfoSanctions  InformationType = "sanctions"

	InfoAdverseMedia    InformationType = "adverse_media"
	InfoDigitalFootprint InformationType = "digital_footprint"
)

// Phase groups InformationTypes in their required completion order (§3:
// Foundation must complete before Records; Records before Intelligence).
type Phase string

const (
	PhaseFoundation   Phase = "foundation"
	PhaseRecords      Phase = "records"
	PhaseIntelligence Phase = "intelligence"
)

// FoundationTypes, RecordsTypes, IntelligenceTypes partition the closed
// InformationType enumeration by phase.
var (
	FoundationTypes   = []InformationType{InfoIdentity, InfoEmployment, InfoEducation}
	RecordsTypes      = []InformationType{InfoCriminal, InfoCivil, InfoFinancial, InfoLicenses, InfoRegulatory, InfoSanctions}
	IntelligenceTypes = []InformationType{InfoAdverseMedia, InfoDigitalFootprint}
)

// PhaseOf returns the phase an InformationType belongs to.
func PhaseOf(t InformationType) Phase {
	for _, x := range FoundationTypes {
		if x == t {
			return PhaseFoundation
		}
	}
	for _, x := range RecordsTypes {
		if x == t {
			return PhaseRecords
		}
	}
	return PhaseIntelligence
}

// AllInformationTypes returns the full closed enumeration in phase order.
func AllInformationTypes() []InformationType {
	out := make([]InformationType, 0, len(FoundationTypes)+len(RecordsTypes)+len(IntelligenceTypes))
	out = append(out, FoundationTypes...)
	out = append(out, RecordsTypes...)
	out = append(out, IntelligenceTypes...)
	return out
}

// Identifiers carries the subject's supplied identifying information.
type Identifiers struct {
	Name      string
	DOB       string // normalized YYYY-MM-DD
	SSN       string // digits-only, normalized
	Addresses []string
}

// Subject is immutable after creation; changes create new Subject versions.
type Subject struct {
	SubjectID    string
	TenantID     string
	Identifiers  Identifiers
	Jurisdiction string
	RoleCategory string
	Version      int
	CreatedAt    time.Time
}

// Entity is the resolved canonical representation a Subject points at.
type Entity struct {
	EntityID  string
	TenantID  string
	UpdatedAt time.Time
}

// Fact is append-only within an investigation.
type Fact struct {
	ID               string
	InfoType         InformationType
	Claim            map[string]any
	SourceProviderID string
	EvidenceRefs     []string
	Confidence       float64
	DiscoveredAt     time.Time
	Corroborated     bool // confirmed by >=2 independent providers
}

// ReconciliationStatus tracks how an Inconsistency was resolved.
type ReconciliationStatus string

const (
	ReconciliationOpen             ReconciliationStatus = "open"
	ReconciliationResolved         ReconciliationStatus = "resolved"
	ReconciliationAcceptedConflict ReconciliationStatus = "accepted_conflict"
)

// InconsistencyKind names the shape of a detected contradiction.
type InconsistencyKind string

const (
	InconsistencyTimelineImpossibility InconsistencyKind = "timeline_impossibility"
	InconsistencyClaimContradiction    InconsistencyKind = "claim_contradiction"
	InconsistencyIdentifierMismatch    InconsistencyKind = "identifier_mismatch"
)

// Inconsistency records two or more Facts whose claims contradict.
type Inconsistency struct {
	ID         string
	Kind       InconsistencyKind
	FactIDs    []string
	Status     ReconciliationStatus
	DetectedAt time.Time
}

// FindingCategory per §3.
type FindingCategory string

const (
	CategoryCriminal      FindingCategory = "criminal"
	CategoryFinancial     FindingCategory = "financial"
	CategoryRegulatory    FindingCategory = "regulatory"
	CategoryReputation    FindingCategory = "reputation"
	CategoryVerification  FindingCategory = "verification"
	CategoryBehavioral    FindingCategory = "behavioral"
	CategoryNetwork       FindingCategory = "network"
)

// Severity per §9 Open Question resolution (see DESIGN.md for the pinned
// numeric weight mapping).
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// SeverityWeight maps Severity to the numeric weight used by the risk
// aggregator's base score (§4.J.6). Pinned per DESIGN.md open-question
// resolution: doubling-biased so a single CRITICAL finding dominates
// several LOW ones.
var SeverityWeight = map[Severity]float64{
	SeverityLow:      1,
	SeverityMedium:   3,
	SeverityHigh:     7,
	SeverityCritical: 15,
}

// Finding is a categorized, severity-scored unit of risk.
type Finding struct {
	ID               string
	Category         FindingCategory
	Subcategory      string
	Severity         Severity
	Date             time.Time
	Description      string
	SupportingFacts  []string
	RelevanceToRole  float64
}

// Recommendation is the outcome of the risk aggregator's score mapping.
type Recommendation string

const (
	RecommendationClear                  Recommendation = "clear"
	RecommendationReview                 Recommendation = "review"
	RecommendationEnhancedReview         Recommendation = "enhanced_review"
	RecommendationAdverseActionCandidate Recommendation = "adverse_action_candidate"
)

// ComprehensiveRiskAssessment is the output of the Risk Aggregator (§4.J.6).
type ComprehensiveRiskAssessment struct {
	FinalScore     float64
	BaseScore      float64
	Adjustments    map[string]float64
	Recommendation Recommendation
}

// RecommendationFor maps a final_score in [0,100] to a Recommendation.
func RecommendationFor(finalScore float64) Recommendation {
	switch {
	case finalScore <= 25:
		return RecommendationClear
	case finalScore <= 50:
		return RecommendationReview
	case finalScore <= 75:
		return RecommendationEnhancedReview
	default:
		return RecommendationAdverseActionCandidate
	}
}

// Profile is immutable once produced; a new investigation produces a new
// version.
type Profile struct {
	EntityID    string
	Version     int
	Findings    []Finding
	RiskScore   float64
	RiskLevel   Severity
	EntityGraph EntityGraph
	CreatedAt   time.Time
}

// EntityGraph is a symmetric adjacency table of entity connections, per §9's
// design note: cyclic graphs stored as edges, never recursive references.
type EntityGraph struct {
	Edges []Edge
}

// ConnectionType names the nature of a connection between entities.
type ConnectionType string

const (
	ConnectionEmployer  ConnectionType = "employer"
	ConnectionAddress   ConnectionType = "address"
	ConnectionAssociate ConnectionType = "associate"
)

// Edge is one symmetric connection between two entities.
type Edge struct {
	A, B     string
	Type     ConnectionType
	Strength float64
}

// ProfileDelta is the structured difference between two Profile versions.
type ProfileDelta struct {
	EntityID          string
	OldVersion        int
	NewVersion        int
	NewFindings       []Finding
	ResolvedFindings  []Finding
	ChangedFindings   []Finding
	RiskScoreChange   float64
	ConnectionChanges []Edge
	EvolutionSignals  []string
}

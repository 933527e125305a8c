// Package providers adapts concrete data-source integrations to the
// Provider Gateway. Spec §9's design note on modeling provider inheritance
// models a provider's supported checks as a capability interface rather
// than a flat enum a provider declares membership in; grounded on the
// teacher's pkg/capabilities/organs.go notion of declared capabilities
// resolved against what's actually available. A source struct implements
// whichever of these interfaces its integration actually supports, and
// Adapter discovers that support by type assertion rather than the source
// having to self-report a capability list by hand.
package providers

import (
	"context"

	"github.com/clearcheck/investigator/pkg/domain"
)

// IdentityVerifier confirms name/DOB/national-ID consistency against an
// authoritative identity source.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

// EmploymentVerifier confirms prior employment claims.
type EmploymentVerifier interface {
	VerifyEmployment(ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

// EducationVerifier confirms credential/degree claims.
type EducationVerifier interface {
	VerifyEducation(ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

// CriminalRecordsChecker searches criminal court/registry records.
type CriminalRecordsChecker interface {
	CheckCriminalRecords(ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

// CivilRecordsChecker searches civil litigation records.
type CivilRecordsChecker interface {
	CheckCivilRecords(ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

// FinancialRecordsChecker searches bankruptcy, lien, and judgment records.
type FinancialRecordsChecker interface {
	CheckFinancialRecords(ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

// LicenseVerifier confirms professional license standing.
type LicenseVerifier interface {
	VerifyLicenses(ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

// RegulatoryActionChecker searches regulator enforcement/disciplinary
// action records.
type RegulatoryActionChecker interface {
	CheckRegulatoryActions(ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

// SanctionsChecker screens against sanctions/watchlists.
type SanctionsChecker interface {
	CheckSanctions(ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

// AdverseMediaScanner searches news/media for adverse coverage.
type AdverseMediaScanner interface {
	ScanAdverseMedia(ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

// DigitalFootprintScanner surveys public online presence.
type DigitalFootprintScanner interface {
	ScanDigitalFootprint(ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

// Declarer lets a capability source narrow its statically-implemented
// capability interfaces to the subset it's actually configured for (e.g.
// HTTPSource implements every verifier/checker method but only some have
// a configured endpoint). A source not implementing Declarer is assumed
// to support every capability interface it satisfies.
type Declarer interface {
	SupportsCheck(checkType domain.InformationType) bool
}

// capabilityBinding connects one InformationType to the interface probe
// and invocation for it, so Adapter can discover and dispatch without a
// type switch growing unbounded at every call site.
type capabilityBinding struct {
	checkType domain.InformationType
	probe     func(src any) bool
	invoke    func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error)
}

var capabilityBindings = []capabilityBinding{
	{
		checkType: domain.InfoIdentity,
		probe:     func(src any) bool { _, ok := src.(IdentityVerifier); return ok },
		invoke: func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
			return src.(IdentityVerifier).VerifyIdentity(ctx, subject)
		},
	},
	{
		checkType: domain.InfoEmployment,
		probe:     func(src any) bool { _, ok := src.(EmploymentVerifier); return ok },
		invoke: func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
			return src.(EmploymentVerifier).VerifyEmployment(ctx, subject)
		},
	},
	{
		checkType: domain.InfoEducation,
		probe:     func(src any) bool { _, ok := src.(EducationVerifier); return ok },
		invoke: func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
			return src.(EducationVerifier).VerifyEducation(ctx, subject)
		},
	},
	{
		checkType: domain.InfoCriminal,
		probe:     func(src any) bool { _, ok := src.(CriminalRecordsChecker); return ok },
		invoke: func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
			return src.(CriminalRecordsChecker).CheckCriminalRecords(ctx, subject)
		},
	},
	{
		checkType: domain.InfoCivil,
		probe:     func(src any) bool { _, ok := src.(CivilRecordsChecker); return ok },
		invoke: func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
			return src.(CivilRecordsChecker).CheckCivilRecords(ctx, subject)
		},
	},
	{
		checkType: domain.InfoFinancial,
		probe:     func(src any) bool { _, ok := src.(FinancialRecordsChecker); return ok },
		invoke: func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
			return src.(FinancialRecordsChecker).CheckFinancialRecords(ctx, subject)
		},
	},
	{
		checkType: domain.InfoLicenses,
		probe:     func(src any) bool { _, ok := src.(LicenseVerifier); return ok },
		invoke: func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
			return src.(LicenseVerifier).VerifyLicenses(ctx, subject)
		},
	},
	{
		checkType: domain.InfoRegulatory,
		probe:     func(src any) bool { _, ok := src.(RegulatoryActionChecker); return ok },
		invoke: func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
			return src.(RegulatoryActionChecker).CheckRegulatoryActions(ctx, subject)
		},
	},
	{
		checkType: domain.InfoSanctions,
		probe:     func(src any) bool { _, ok := src.(SanctionsChecker); return ok },
		invoke: func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
			return src.(SanctionsChecker).CheckSanctions(ctx, subject)
		},
	},
	{
		checkType: domain.InfoAdverseMedia,
		probe:     func(src any) bool { _, ok := src.(AdverseMediaScanner); return ok },
		invoke: func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
			return src.(AdverseMediaScanner).ScanAdverseMedia(ctx, subject)
		},
	},
	{
		checkType: domain.InfoDigitalFootprint,
		probe:     func(src any) bool { _, ok := src.(DigitalFootprintScanner); return ok },
		invoke: func(src any, ctx context.Context, subject domain.Identifiers) (map[string]any, error) {
			return src.(DigitalFootprintScanner).ScanDigitalFootprint(ctx, subject)
		},
	},
}

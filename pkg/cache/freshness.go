// Package cache implements the Freshness Policy and Result Cache (spec
// §4.C): a per-check-type freshness window, tightened under the Enhanced
// tier, backing the Search phase's decision to reuse a prior provider
// result instead of issuing a new request.
package cache

import (
	"time"

	"github.com/clearcheck/investigator/pkg/domain"
)

// Window is the freshness window for a single InformationType: results
// younger than Fresh are reused without question; results between Fresh
// and Stale may be reused with a staleness flag; results older than Stale
// are never reused.
type Window struct {
	Fresh time.Duration
	Stale time.Duration
}

// standardWindows is the Standard-tier freshness table (spec §4.C).
var standardWindows = map[domain.InformationType]Window{
	domain.InfoSanctions:        {Fresh: 0, Stale: 0},
	domain.InfoAdverseMedia:     {Fresh: 24 * time.Hour, Stale: 7 * 24 * time.Hour},
	domain.InfoCriminal:         {Fresh: 7 * 24 * time.Hour, Stale: 30 * 24 * time.Hour},
	domain.InfoCivil:            {Fresh: 7 * 24 * time.Hour, Stale: 30 * 24 * time.Hour},
	domain.InfoRegulatory:       {Fresh: 30 * 24 * time.Hour, Stale: 90 * 24 * time.Hour},
	domain.InfoFinancial:        {Fresh: 30 * 24 * time.Hour, Stale: 90 * 24 * time.Hour},
	domain.InfoEmployment:       {Fresh: 90 * 24 * time.Hour, Stale: 180 * 24 * time.Hour},
	domain.InfoEducation:        {Fresh: 365 * 24 * time.Hour, Stale: 730 * 24 * time.Hour},
	domain.InfoLicenses:         {Fresh: 90 * 24 * time.Hour, Stale: 180 * 24 * time.Hour},
	domain.InfoIdentity:         {Fresh: 365 * 24 * time.Hour, Stale: 730 * 24 * time.Hour},
	domain.InfoDigitalFootprint: {Fresh: 24 * time.Hour, Stale: 7 * 24 * time.Hour},
}

// enhancedFreshFactor and enhancedStaleFactor are the fractions of the
// Standard fresh and stale windows retained under the Enhanced tier (spec §4.C: "Enhanced tier tightens windows").
const enhancedFreshFactor = 0.5
const enhancedStaleFactor = 0.7

// WindowFor returns the freshness window for checkType under tier.
func WindowFor(checkType domain.InformationType, tier domain.Tier) Window {
	w, ok := standardWindows[checkType]
	if !ok {
		return Window{}
	}
	if tier != domain.TierEnhanced {
		return w
	}
	return Window{
		Fresh: time.Duration(float64(w.Fresh) * enhancedFreshFactor),
		Stale: time.Duration(float64(w.Stale) * enhancedStaleFactor),
	}
}

// Freshness classifies an age against a window.
type Freshness int

const (
	Fresh Freshness = iota
	Staleish
	Expired
)

// Classify reports how age compares to the window boundaries.
func (w Window) Classify(age time.Duration) Freshness {
	switch {
	case age <= w.Fresh:
		return Fresh
	case age <= w.Stale:
		return Staleish
	default:
		return Expired
	}
}

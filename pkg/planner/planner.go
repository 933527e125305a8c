// Package planner implements the Query Planner and Refiner (spec §4.F):
// turning a Ruleset, Tier, Degree, and locale into a concrete set of
// provider queries, and targeting gap-driven refinement in later SAR
// iterations.
package planner

import (
	"sort"

	"github.com/clearcheck/investigator/pkg/compliance"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/gateway"
	"github.com/clearcheck/investigator/pkg/knowledge"
)

// DataSourceResolver maps a check_type to the ordered list of providers
// capable of serving it (spec §4.F).
type DataSourceResolver struct {
	byCheckType map[domain.InformationType][]gateway.Provider
}

// NewDataSourceResolver builds a resolver from a provider registry,
// grouping providers by every InformationType they declare support for.
func NewDataSourceResolver(providers []gateway.Provider) *DataSourceResolver {
	r := &DataSourceResolver{byCheckType: make(map[domain.InformationType][]gateway.Provider)}
	for _, p := range providers {
		for _, c := range p.Capabilities() {
			r.byCheckType[c] = append(r.byCheckType[c], p)
		}
	}
	return r
}

// ProvidersFor returns the providers capable of serving checkType.
func (r *DataSourceResolver) ProvidersFor(checkType domain.InformationType) []gateway.Provider {
	return r.byCheckType[checkType]
}

// Query is a single planned provider call.
type Query struct {
	ProviderID string
	Request    gateway.Request
}

// Plan generates the initial set of Queries for a phase's InformationTypes,
// restricted to checks the Ruleset permits, fanning each permitted
// check_type out to every capable provider (spec §4.F).
func Plan(phase domain.Phase, subject domain.Identifiers, ruleset *compliance.Ruleset, resolver *DataSourceResolver) []Query {
	var infoTypes []domain.InformationType
	switch phase {
	case domain.PhaseFoundation:
		infoTypes = domain.FoundationTypes
	case domain.PhaseRecords:
		infoTypes = domain.RecordsTypes
	case domain.PhaseIntelligence:
		infoTypes = domain.IntelligenceTypes
	}

	var queries []Query
	for _, it := range infoTypes {
		if !ruleset.IsPermitted(it) {
			continue
		}
		for _, p := range resolver.ProvidersFor(it) {
			queries = append(queries, Query{
				ProviderID: p.ID(),
				Request:    gateway.Request{CheckType: it, Subject: subject},
			})
		}
	}
	sortQueries(queries)
	return queries
}

// Refine generates additional Queries targeting the Knowledge Base's
// currently open Gaps, deduplicated against alreadyIssued by
// (provider_id, check_type) — a coarser key than the cache's full
// fingerprint since refinement reasons about coverage, not exact params
// (spec §4.F: "dedup by (provider_id, normalized_params)" is the cache's
// concern; the planner's own dedup only needs to avoid re-issuing the same
// provider/check_type pair within one refinement pass).
func Refine(subject domain.Identifiers, snapshot knowledge.Snapshot, ruleset *compliance.Ruleset, resolver *DataSourceResolver, alreadyIssued map[string]bool) []Query {
	var queries []Query
	for _, gap := range snapshot.Gaps {
		if !ruleset.IsPermitted(gap.InfoType) {
			continue
		}
		for _, p := range resolver.ProvidersFor(gap.InfoType) {
			key := p.ID() + "|" + string(gap.InfoType)
			if alreadyIssued[key] {
				continue
			}
			alreadyIssued[key] = true
			queries = append(queries, Query{
				ProviderID: p.ID(),
				Request:    gateway.Request{CheckType: gap.InfoType, Subject: subject},
			})
		}
	}
	sortQueries(queries)
	return queries
}

func sortQueries(qs []Query) {
	sort.Slice(qs, func(i, j int) bool {
		if qs[i].Request.CheckType != qs[j].Request.CheckType {
			return qs[i].Request.CheckType < qs[j].Request.CheckType
		}
		return qs[i].ProviderID < qs[j].ProviderID
	})
}

// Package degree implements the Degree Orchestrator (spec §4.I): D1 runs
// SAR over the primary subject, D2/D3 expand into connected entities with
// bounded, relevance-ranked concurrency.
package degree

import (
	"context"
	"sort"
	"sync"

	"github.com/clearcheck/investigator/pkg/domain"
)

// Degree identifies how many hops out from the primary subject an
// investigation has expanded.
type Degree int

const (
	D1 Degree = 1
	D2 Degree = 2
	D3 Degree = 3
)

// Connection is a candidate entity discovered while investigating another
// entity, ranked for D2/D3 expansion.
type Connection struct {
	EntityID          string
	Type              domain.ConnectionType
	RoleProximity     float64
	TieStrength       float64
	SharedIdentifiers int
}

// RelevanceScore ranks a Connection for queue prioritization (spec §4.I:
// "ranked by a relevance score (role proximity, financial tie strength,
// shared identifiers)").
func RelevanceScore(c Connection) float64 {
	return 0.4*c.RoleProximity + 0.35*c.TieStrength + 0.25*float64(c.SharedIdentifiers)
}

// InvestigateFunc runs a full SAR investigation for one entity and returns
// its findings plus any newly discovered Connections to expand further.
type InvestigateFunc func(ctx context.Context, entityID string) (EntityResult, error)

// EntityResult is one entity's outcome within a degree expansion.
type EntityResult struct {
	EntityID        string
	Findings        []domain.Finding
	Connections     []Connection
	Inconsistencies []domain.Inconsistency
	NumericFacts    []float64
	Degraded        bool
}

// DegreeResult aggregates every EntityResult produced at a given degree.
type DegreeResult struct {
	Degree  Degree
	Results []EntityResult
}

// Driver runs the bounded-concurrency D1->D2->D3 expansion, grounded on
// the teacher's pkg/governance swarm evaluator's semaphore-channel
// worker-pool pattern generalized from policy evaluation fan-out to
// per-entity investigation fan-out.
type Driver struct {
	maxParallel        int
	networkMaxEntities int
	investigate        InvestigateFunc
}

// NewDriver constructs a Driver. maxParallel bounds concurrent
// investigations; networkMaxEntities caps how many connections are queued
// per degree (spec §4.I default 20).
func NewDriver(maxParallel, networkMaxEntities int, investigate InvestigateFunc) *Driver {
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &Driver{maxParallel: maxParallel, networkMaxEntities: networkMaxEntities, investigate: investigate}
}

// RunD1 investigates the primary subject's entity alone.
func (d *Driver) RunD1(ctx context.Context, entityID string) (DegreeResult, error) {
	res, err := d.investigate(ctx, entityID)
	if err != nil {
		return DegreeResult{}, err
	}
	return DegreeResult{Degree: D1, Results: []EntityResult{res}}, nil
}

// ExpandDegree runs the next degree's investigations over the
// highest-ranked connections surfaced by the previous degree, bounded to
// networkMaxEntities and maxParallel. Partial failures degrade gracefully:
// a failed entity is recorded with Degraded=true rather than aborting the
// whole degree (spec §4.I).
func (d *Driver) ExpandDegree(ctx context.Context, degree Degree, connections []Connection) DegreeResult {
	queue := prioritize(connections, d.networkMaxEntities)

	type indexed struct {
		idx int
		res EntityResult
	}
	resultsCh := make(chan indexed, len(queue))
	sem := make(chan struct{}, d.maxParallel)
	var wg sync.WaitGroup

	for i, conn := range queue {
		wg.Add(1)
		go func(idx int, c Connection) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := d.investigate(ctx, c.EntityID)
			if err != nil {
				res = EntityResult{EntityID: c.EntityID, Degraded: true}
			}
			resultsCh <- indexed{idx: idx, res: res}
		}(i, conn)
	}

	wg.Wait()
	close(resultsCh)

	ordered := make([]EntityResult, len(queue))
	for item := range resultsCh {
		ordered[item.idx] = item.res
	}
	return DegreeResult{Degree: degree, Results: ordered}
}

// prioritize sorts connections by descending RelevanceScore and truncates
// to limit, recording nothing about dropped entries — callers that need to
// log truncation do so from the caller's audit layer, which has the
// investigation-level context this package does not.
func prioritize(connections []Connection, limit int) []Connection {
	sorted := make([]Connection, len(connections))
	copy(sorted, connections)
	sort.Slice(sorted, func(i, j int) bool { return RelevanceScore(sorted[i]) > RelevanceScore(sorted[j]) })

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

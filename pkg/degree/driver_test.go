package degree_test

import (
	"context"
	"errors"
	"testing"

	"github.com/clearcheck/investigator/pkg/degree"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandDegree_CapsToNetworkMaxEntities(t *testing.T) {
	var connections []degree.Connection
	for i := 0; i < 30; i++ {
		connections = append(connections, degree.Connection{EntityID: string(rune('a' + i)), RoleProximity: float64(i)})
	}

	d := degree.NewDriver(4, 20, func(ctx context.Context, entityID string) (degree.EntityResult, error) {
		return degree.EntityResult{EntityID: entityID}, nil
	})

	result := d.ExpandDegree(context.Background(), degree.D2, connections)
	assert.Len(t, result.Results, 20)
}

func TestExpandDegree_PartialFailureDegradesGracefully(t *testing.T) {
	connections := []degree.Connection{
		{EntityID: "ok"},
		{EntityID: "fails"},
	}

	d := degree.NewDriver(2, 20, func(ctx context.Context, entityID string) (degree.EntityResult, error) {
		if entityID == "fails" {
			return degree.EntityResult{}, errors.New("provider unreachable")
		}
		return degree.EntityResult{EntityID: entityID}, nil
	})

	result := d.ExpandDegree(context.Background(), degree.D2, connections)
	require.Len(t, result.Results, 2)

	var degraded, ok int
	for _, r := range result.Results {
		if r.Degraded {
			degraded++
		} else {
			ok++
		}
	}
	assert.Equal(t, 1, degraded)
	assert.Equal(t, 1, ok)
}

func TestRun_D3SkippedUnderStandardTier(t *testing.T) {
	calls := map[string]int{}
	d := degree.NewDriver(4, 20, func(ctx context.Context, entityID string) (degree.EntityResult, error) {
		calls[entityID]++
		var conns []degree.Connection
		if entityID == "primary" {
			conns = []degree.Connection{{EntityID: "hop1"}}
		}
		if entityID == "hop1" {
			conns = []degree.Connection{{EntityID: "hop2"}}
		}
		return degree.EntityResult{EntityID: entityID, Connections: conns}, nil
	})

	outcome, err := d.Run(context.Background(), "primary", domain.TierStandard)
	require.NoError(t, err)
	require.Len(t, outcome.Degrees, 2, "standard tier must stop after D2")
	assert.Equal(t, 0, calls["hop2"])
}

func TestRun_D3RunsUnderEnhancedTier(t *testing.T) {
	calls := map[string]int{}
	d := degree.NewDriver(4, 20, func(ctx context.Context, entityID string) (degree.EntityResult, error) {
		calls[entityID]++
		var conns []degree.Connection
		if entityID == "primary" {
			conns = []degree.Connection{{EntityID: "hop1"}}
		}
		if entityID == "hop1" {
			conns = []degree.Connection{{EntityID: "hop2"}}
		}
		return degree.EntityResult{EntityID: entityID, Connections: conns}, nil
	})

	outcome, err := d.Run(context.Background(), "primary", domain.TierEnhanced)
	require.NoError(t, err)
	require.Len(t, outcome.Degrees, 3)
	assert.Equal(t, 1, calls["hop2"])
}

func TestRelevanceScore_OrdersByWeightedComponents(t *testing.T) {
	high := degree.Connection{RoleProximity: 1, TieStrength: 1, SharedIdentifiers: 2}
	low := degree.Connection{RoleProximity: 0, TieStrength: 0, SharedIdentifiers: 0}
	assert.Greater(t, degree.RelevanceScore(high), degree.RelevanceScore(low))
}

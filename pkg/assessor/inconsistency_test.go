package assessor_test

import (
	"strconv"
	"testing"

	"github.com/clearcheck/investigator/pkg/assessor"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func idGen() func() string {
	n := 0
	return func() string {
		n++
		return "inc-" + strconv.Itoa(n)
	}
}

func TestDetect_ClaimContradiction(t *testing.T) {
	facts := []domain.Fact{
		{ID: "f1", InfoType: domain.InfoIdentity, Claim: map[string]any{"name": "Jane Doe"}},
		{ID: "f2", InfoType: domain.InfoIdentity, Claim: map[string]any{"name": "Jane Smith"}},
	}

	found := assessor.Detect(facts, idGen())
	assert.Condition(t, func() bool {
		for _, i := range found {
			if i.Kind == domain.InconsistencyClaimContradiction {
				return true
			}
		}
		return false
	})
}

func TestDetect_IdentifierMismatch(t *testing.T) {
	facts := []domain.Fact{
		{ID: "f1", InfoType: domain.InfoIdentity, Claim: map[string]any{"dob": "1990-01-01"}},
		{ID: "f2", InfoType: domain.InfoIdentity, Claim: map[string]any{"dob": "1991-02-02"}},
	}

	found := assessor.Detect(facts, idGen())
	var kinds []domain.InconsistencyKind
	for _, i := range found {
		kinds = append(kinds, i.Kind)
	}
	assert.Contains(t, kinds, domain.InconsistencyIdentifierMismatch)
}

func TestDetect_TimelineImpossibility(t *testing.T) {
	facts := []domain.Fact{
		{ID: "f1", InfoType: domain.InfoEmployment, Claim: map[string]any{"start_date": "2020-01-01", "end_date": "2021-01-01"}},
		{ID: "f2", InfoType: domain.InfoEmployment, Claim: map[string]any{"start_date": "2020-06-01", "end_date": "2022-01-01"}},
	}

	found := assessor.Detect(facts, idGen())
	var kinds []domain.InconsistencyKind
	for _, i := range found {
		kinds = append(kinds, i.Kind)
	}
	assert.Contains(t, kinds, domain.InconsistencyTimelineImpossibility)
}

func TestDetect_NoOverlapNoTimelineInconsistency(t *testing.T) {
	facts := []domain.Fact{
		{ID: "f1", InfoType: domain.InfoEmployment, Claim: map[string]any{"start_date": "2020-01-01", "end_date": "2021-01-01"}},
		{ID: "f2", InfoType: domain.InfoEmployment, Claim: map[string]any{"start_date": "2021-02-01", "end_date": "2022-01-01"}},
	}

	found := assessor.Detect(facts, idGen())
	for _, i := range found {
		assert.NotEqual(t, domain.InconsistencyTimelineImpossibility, i.Kind)
	}
}

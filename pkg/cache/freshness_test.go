package cache_test

import (
	"testing"
	"time"

	"github.com/clearcheck/investigator/pkg/cache"
	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestWindowFor_SanctionsAlwaysExpired(t *testing.T) {
	w := cache.WindowFor(domain.InfoSanctions, domain.TierStandard)
	assert.Equal(t, cache.Expired, w.Classify(time.Nanosecond))
}

func TestWindowFor_EnhancedTierTightensWindow(t *testing.T) {
	std := cache.WindowFor(domain.InfoCriminal, domain.TierStandard)
	enh := cache.WindowFor(domain.InfoCriminal, domain.TierEnhanced)

	assert.Less(t, enh.Fresh, std.Fresh)
	assert.Less(t, enh.Stale, std.Stale)
}

func TestWindow_ClassifyBoundaries(t *testing.T) {
	w := cache.Window{Fresh: 24 * time.Hour, Stale: 7 * 24 * time.Hour}

	assert.Equal(t, cache.Fresh, w.Classify(time.Hour))
	assert.Equal(t, cache.Staleish, w.Classify(48*time.Hour))
	assert.Equal(t, cache.Expired, w.Classify(8*24*time.Hour))
}

package matching_test

import (
	"testing"

	"chugr/backend/internal/matching"

	"github.com/stretchr/testify/assert"
)

func profileAt(age int, lat, lon float64, interests ...string) matching.Profile {
	return matching.Profile{
		Age:           age,
		Lat:           lat,
		Lon:           lon,
		MinAge:        20,
		MaxAge:        30,
		MaxDistanceKm: 50,
		Interests:     interests,
	}
}

func TestScoreBoundedByWeights(t *testing.T) {
	w := matching.DefaultWeights()
	assert.InDelta(t, 1.0, w.Distance+w.Age+w.Interests, 1e-9)

	a := profileAt(25, 55.7558, 37.6173, "hiking", "jazz")
	b := profileAt(25, 55.7558, 37.6173, "hiking", "jazz")

	got := matching.Score(a, b, w)
	assert.InDelta(t, 1.0, got.Total, 1e-9)
	assert.Equal(t, 1.0, got.Distance)
	assert.Equal(t, 1.0, got.Age)
	assert.Equal(t, 1.0, got.Interests)
}

func TestScoreNearbyCompatiblePair(t *testing.T) {
	a := profileAt(25, 55.7558, 37.6173, "hiking", "jazz", "cooking")
	// ~0.4 km away, shares two of three interests.
	b := profileAt(27, 55.7520, 37.6175, "hiking", "jazz")

	got := matching.Score(a, b, matching.DefaultWeights())

	assert.Greater(t, got.Total, 0.5)
	assert.Equal(t, 1.0, got.Age)
	assert.InDelta(t, 2.0/3.0, got.Interests, 1e-9)
	assert.Less(t, got.DistanceKm, 1.0)
}

func TestScoreFarIncompatiblePair(t *testing.T) {
	a := profileAt(25, 55.7558, 37.6173, "hiking")
	// Out of age range, out of distance range, nothing shared.
	c := matching.Profile{
		Age: 45, Lat: 56.8587, Lon: 35.9176,
		MinAge: 40, MaxAge: 60, MaxDistanceKm: 50,
		Interests: []string{"opera"},
	}

	got := matching.Score(a, c, matching.DefaultWeights())
	assert.Zero(t, got.Total)
}

func TestScoreAgeGateIsReciprocal(t *testing.T) {
	a := profileAt(25, 55.7558, 37.6173)
	b := profileAt(28, 55.7558, 37.6173)
	// b's age fits a's range but a's age does not fit b's.
	b.MinAge = 27
	b.MaxAge = 35

	got := matching.Score(a, b, matching.DefaultWeights())
	assert.Zero(t, got.Age)

	got = matching.Score(b, a, matching.DefaultWeights())
	assert.Zero(t, got.Age)
}

func TestScoreDistanceDecay(t *testing.T) {
	a := profileAt(25, 0, 0)

	prev := 2.0
	// Each step roughly 11 km further out.
	for lon := 0.0; lon < 0.5; lon += 0.1 {
		b := profileAt(25, 0, lon)
		got := matching.Score(a, b, matching.DefaultWeights())
		assert.Less(t, got.Distance, prev)
		prev = got.Distance
	}
}

func TestScoreDistanceUsesLargerPreference(t *testing.T) {
	a := profileAt(25, 0, 0)
	a.MaxDistanceKm = 10
	b := profileAt(25, 0, 0.5) // ~55 km away
	b.MaxDistanceKm = 100

	got := matching.Score(a, b, matching.DefaultWeights())
	assert.Greater(t, got.Distance, 0.0)
}

func TestScoreInterestsEdgeCases(t *testing.T) {
	base := profileAt(25, 0, 0)

	t.Run("no interests on either side", func(t *testing.T) {
		got := matching.Score(base, profileAt(25, 0, 0), matching.DefaultWeights())
		assert.Zero(t, got.Interests)
	})

	t.Run("one side empty", func(t *testing.T) {
		got := matching.Score(profileAt(25, 0, 0, "hiking"), base, matching.DefaultWeights())
		assert.Zero(t, got.Interests)
	})

	t.Run("disjoint sets", func(t *testing.T) {
		got := matching.Score(
			profileAt(25, 0, 0, "hiking"),
			profileAt(25, 0, 0, "opera"),
			matching.DefaultWeights(),
		)
		assert.Zero(t, got.Interests)
	})

	t.Run("order independent", func(t *testing.T) {
		x := profileAt(25, 0, 0, "hiking", "jazz", "cooking")
		y := profileAt(25, 0, 0, "jazz", "surfing")
		ab := matching.Score(x, y, matching.DefaultWeights())
		ba := matching.Score(y, x, matching.DefaultWeights())
		assert.Equal(t, ab.Interests, ba.Interests)
		assert.InDelta(t, 0.25, ab.Interests, 1e-9)
	})
}

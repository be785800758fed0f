package matching

// Profile carries the attributes of one side of a compatibility check.
type Profile struct {
	Age           int
	Lat           float64
	Lon           float64
	MinAge        int
	MaxAge        int
	MaxDistanceKm float64
	Interests     []string
}

// ScoreWeights controls how the individual terms combine into the total.
// The defaults are a product-tunable policy, not a contract; they must
// sum to 1 so the total stays within [0,1].
type ScoreWeights struct {
	Distance  float64
	Age       float64
	Interests float64
}

// DefaultWeights returns the standard scoring policy.
func DefaultWeights() ScoreWeights {
	return ScoreWeights{Distance: 0.3, Age: 0.4, Interests: 0.3}
}

// ScoreBreakdown is a compatibility score with its per-term components.
type ScoreBreakdown struct {
	Total     float64 `json:"total"`
	Distance  float64 `json:"distance"`
	Age       float64 `json:"age"`
	Interests float64 `json:"interests"`

	// DistanceKm is the raw great-circle distance between the two users.
	DistanceKm float64 `json:"distance_km"`
}

// Score computes the compatibility between two profiles.
//
// The distance term decays linearly from 1 (co-located) to 0 at the larger
// of the two users' max-distance preferences. The age term is binary: both
// ages must fall within each other's declared range. The interest term is
// the Jaccard ratio of the two interest sets.
func Score(a, b Profile, w ScoreWeights) ScoreBreakdown {
	d := Haversine(a.Lat, a.Lon, b.Lat, b.Lon)

	breakdown := ScoreBreakdown{
		Distance:   distanceTerm(d, maxFloat(a.MaxDistanceKm, b.MaxDistanceKm)),
		Age:        ageTerm(a, b),
		Interests:  jaccard(a.Interests, b.Interests),
		DistanceKm: d,
	}
	breakdown.Total = w.Distance*breakdown.Distance +
		w.Age*breakdown.Age +
		w.Interests*breakdown.Interests
	return breakdown
}

func distanceTerm(distanceKm, maxDistanceKm float64) float64 {
	if maxDistanceKm <= 0 || distanceKm >= maxDistanceKm {
		return 0
	}
	return (maxDistanceKm - distanceKm) / maxDistanceKm
}

// ageTerm is 1 only when the check holds in both directions.
func ageTerm(a, b Profile) float64 {
	if b.Age < a.MinAge || b.Age > a.MaxAge {
		return 0
	}
	if a.Age < b.MinAge || a.Age > b.MaxAge {
		return 0
	}
	return 1
}

// jaccard returns |intersection| / |union| of two string sets, 0 when
// either is empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}

	union := len(seen)
	intersection := 0
	for _, s := range b {
		if seen[s] {
			intersection++
			seen[s] = false // count each shared element once
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

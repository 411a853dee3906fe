/*
Package route builds walking itineraries over candidate attractions.

The optimizer is a greedy nearest-neighbor heuristic with a composite
score, not an exact TSP solve: at every step it walks to the best-scoring
remaining candidate that still fits the time and distance budget. Good
enough for a day of sightseeing, and O(n^2) in the candidate count.
*/
package route

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/paulmach/orb"

	"github.com/ambyltd/guide-sub000/common"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/types/geopoint"
	"github.com/ambyltd/guide-sub000/types/poi"
)

// Constraints bound and bias the optimization.
type Constraints struct {
	// MaxDuration caps the whole itinerary, walking plus visits.
	// Zero means unbounded.
	MaxDuration time.Duration `json:"maxDuration,omitempty"`

	// MaxDistance caps total walking distance, meters. Zero means unbounded.
	MaxDistance float64 `json:"maxDistance,omitempty"`

	// PreferredCategories restricts the route to the named categories
	// when set. Empty means any category.
	PreferredCategories []string `json:"preferredCategories,omitempty"`

	// AvoidCrowds excludes POIs with a high crowd level.
	AvoidCrowds bool `json:"avoidCrowds,omitempty"`

	// TimeOfDay is the hour [0,23] the walk starts, for crowd weighting.
	// Nil means time is not considered.
	TimeOfDay *int `json:"timeOfDay,omitempty"`
}

// Stop is one leg of an optimized route.
type Stop struct {
	POI poi.POI `json:"poi"`

	Order            int     `json:"order"` // 1-based
	DistanceFromPrev float64 `json:"distanceFromPrev"` // meters
	WalkMinutes      int     `json:"walkMinutes"`
	VisitMinutes     int     `json:"visitMinutes"`
	Score            float64 `json:"score"`
	Instruction      string  `json:"instruction"`
}

type Route struct {
	Stops             []Stop        `json:"stops"`
	TotalDistance     float64       `json:"totalDistance"` // meters, walking only
	EstimatedDuration time.Duration `json:"estimatedDuration"`

	// OptimizationScore grades the produced route in [0,1]; an empty
	// route is trivially optimal for its (infeasible) constraints.
	OptimizationScore float64 `json:"optimizationScore"`
}

// Optimize plans a walking route from start over the candidates.
//
// Candidates that cannot fit any budget are skipped, not errors; an empty
// route with score 1.0 is the answer to infeasible constraints. The
// context is checked once per selection round so a caller can abandon a
// large optimization.
func Optimize(ctx context.Context, start geopoint.Geopoint, candidates []poi.POI, constraints Constraints, config *params.RouteConfig) (Route, error) {
	if config == nil {
		config = params.DefaultRouteConfig
	}

	preferred := map[string]bool{}
	for _, c := range constraints.PreferredCategories {
		preferred[c] = true
	}

	candidates = admissible(candidates, preferred, constraints)
	if len(candidates) > config.MaxCandidates {
		candidates = nearestCandidates(start, candidates, config.MaxCandidates)
	}

	route := Route{Stops: []Stop{}}
	remaining := slices.Clone(candidates)
	cursor := start.Point()
	spent := time.Duration(0)

	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return route, err
		}

		bestIdx, bestScore := -1, -1.0
		var bestDist float64
		for i, p := range remaining {
			d := common.Distance(cursor, p.Location.Point())
			if !fits(d, p, spent, route.TotalDistance, constraints, config) {
				continue
			}
			s := score(d, p, constraints, config)
			if s > bestScore {
				bestIdx, bestScore, bestDist = i, s, d
			}
		}
		if bestIdx < 0 {
			break
		}

		p := remaining[bestIdx]
		walk := walkDuration(bestDist, config)
		spent += walk + p.VisitDuration
		route.TotalDistance += bestDist
		route.Stops = append(route.Stops, Stop{
			POI:              p,
			Order:            len(route.Stops) + 1,
			DistanceFromPrev: common.DecimalToFixed(bestDist, 1),
			WalkMinutes:      common.WalkMinutes(bestDist),
			VisitMinutes:     int(p.VisitDuration.Minutes()),
			Score:            common.DecimalToFixed(bestScore, 3),
			Instruction:      instruction(cursor, p, bestDist),
		})

		cursor = p.Location.Point()
		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)
	}

	route.EstimatedDuration = spent
	route.OptimizationScore = optimizationScore(start, route, constraints, preferred)
	return route, nil
}

// admissible drops candidates the constraints rule out entirely:
// categories outside the preference set, and high-crowd POIs when the
// visitor asked to avoid crowds.
func admissible(candidates []poi.POI, preferred map[string]bool, c Constraints) []poi.POI {
	out := make([]poi.POI, 0, len(candidates))
	for _, p := range candidates {
		if len(preferred) > 0 && !preferred[p.Category] {
			continue
		}
		if c.AvoidCrowds && p.CrowdLevel == poi.CrowdLevelHigh {
			continue
		}
		out = append(out, p)
	}
	return out
}

// fits reports whether adding the candidate keeps the route within budget.
func fits(legDistance float64, p poi.POI, spent time.Duration, walked float64, c Constraints, config *params.RouteConfig) bool {
	if c.MaxDistance > 0 && walked+legDistance > c.MaxDistance {
		return false
	}
	if c.MaxDuration > 0 {
		if spent+walkDuration(legDistance, config)+p.VisitDuration > c.MaxDuration {
			return false
		}
	}
	return true
}

func walkDuration(distance float64, config *params.RouteConfig) time.Duration {
	return time.Duration(distance / config.WalkPace * float64(time.Minute))
}

// score is the composite candidate score, [0,1]:
// weighted distance proximity, popularity, and time-of-day crowd fit.
func score(legDistance float64, p poi.POI, c Constraints, cfg *params.RouteConfig) float64 {
	distanceScore := 1 / (1 + legDistance/1000)
	s := cfg.WeightDistance*distanceScore +
		cfg.WeightPopularity*common.Clamp01(p.Popularity) +
		cfg.WeightTimeOfDay*timeOfDayScore(p, c)
	return common.Clamp01(s)
}

// timeOfDayScore grades how pleasant a POI is to visit at the requested
// hour given its typical crowd level. Peak hours are 11:00 through 15:59.
func timeOfDayScore(p poi.POI, c Constraints) float64 {
	if c.TimeOfDay == nil {
		return 1
	}
	peak := *c.TimeOfDay >= 11 && *c.TimeOfDay < 16
	if !peak {
		return 1
	}
	switch p.CrowdLevel {
	case poi.CrowdLevelHigh:
		return 0.2
	case poi.CrowdLevelModerate:
		return 0.6
	}
	return 1
}

// optimizationScore grades the route as the mean of three efficiencies:
// how directly the legs progress from start to the final stop, how fully
// the time budget is used, and how well stops match preferences.
func optimizationScore(start geopoint.Geopoint, r Route, c Constraints, preferred map[string]bool) float64 {
	if len(r.Stops) == 0 {
		return 1
	}

	distanceEfficiency := 1.0
	if r.TotalDistance > 0 {
		end := r.Stops[len(r.Stops)-1].POI.Location.Point()
		direct := common.Distance(start.Point(), end)
		distanceEfficiency = common.Clamp01(direct / r.TotalDistance)
	}

	timeEfficiency := 1.0
	if c.MaxDuration > 0 {
		timeEfficiency = common.Clamp01(float64(r.EstimatedDuration) / float64(c.MaxDuration))
	}

	preferenceEfficiency := 1.0
	if len(preferred) > 0 {
		matched := 0
		for _, s := range r.Stops {
			if preferred[s.POI.Category] {
				matched++
			}
		}
		preferenceEfficiency = float64(matched) / float64(len(r.Stops))
	}

	return common.DecimalToFixed((distanceEfficiency+timeEfficiency+preferenceEfficiency)/3, 3)
}

func instruction(from orb.Point, p poi.POI, distance float64) string {
	bearing := common.Bearing(from, p.Location.Point())
	return fmt.Sprintf("Head %s for %s to %s (~%d min walk)",
		common.CompassDirection(bearing), prettyDistance(distance), p.Name,
		common.WalkMinutes(distance))
}

func prettyDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1fkm", meters/1000)
	}
	return fmt.Sprintf("%.0fm", meters)
}

// nearestCandidates caps the working set by straight-line distance from
// the start point before the O(n^2) selection begins.
func nearestCandidates(start geopoint.Geopoint, candidates []poi.POI, max int) []poi.POI {
	type scored struct {
		p poi.POI
		d float64
	}
	all := make([]scored, len(candidates))
	for i, p := range candidates {
		all[i] = scored{p, common.Distance(start.Point(), p.Location.Point())}
	}
	slices.SortStableFunc(all, func(a, b scored) int {
		if a.d < b.d {
			return -1
		} else if a.d > b.d {
			return 1
		}
		return 0
	})
	out := make([]poi.POI, 0, max)
	for i := 0; i < max && i < len(all); i++ {
		out = append(out, all[i].p)
	}
	return out
}

// Matrix precomputes pairwise distances for a candidate set, meters.
// Index 0 is the start point; candidate i is row/column i+1.
type Matrix [][]float64

func BuildMatrix(start geopoint.Geopoint, candidates []poi.POI) Matrix {
	points := make([]orb.Point, 0, len(candidates)+1)
	points = append(points, start.Point())
	for _, p := range candidates {
		points = append(points, p.Location.Point())
	}
	m := make(Matrix, len(points))
	for i := range points {
		m[i] = make([]float64, len(points))
		for j := range points {
			if i == j {
				continue
			}
			if j < i {
				m[i][j] = m[j][i]
				continue
			}
			m[i][j] = common.Distance(points[i], points[j])
		}
	}
	return m
}

// Longest returns the longest pairwise distance in the matrix, a cheap
// upper bound for sanity-checking budgets.
func (m Matrix) Longest() float64 {
	longest := 0.0
	for i := range m {
		for j := range m[i] {
			longest = math.Max(longest, m[i][j])
		}
	}
	return longest
}

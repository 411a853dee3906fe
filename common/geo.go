package common

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Pure geodesy on WGS84-style lat/lon pairs. Meters and seconds are the
// canonical units throughout; nothing here has state or failure modes.
// Out-of-range coordinates are a caller-boundary problem, not ours.

// Distance returns the great-circle distance between two points in meters.
func Distance(a, b orb.Point) float64 {
	return geo.Distance(a, b)
}

// Bearing returns the compass bearing from a to b in degrees [0,360).
func Bearing(a, b orb.Point) float64 {
	return NormalizeBearing(geo.Bearing(a, b))
}

// NormalizeBearing maps any bearing into [0,360).
func NormalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassDirection buckets a bearing into one of exactly 8 compass points
// by rounding bearing/45 to the nearest integer mod 8.
func CompassDirection(bearing float64) string {
	i := Round(NormalizeBearing(bearing)/45) % 8
	return compassPoints[i]
}

// DestinationPoint projects origin forward along a bearing, meters.
func DestinationPoint(origin orb.Point, distanceMeters, bearingDegrees float64) orb.Point {
	return geo.PointAtBearingAndDistance(origin, bearingDegrees, distanceMeters)
}

// PathLength sums consecutive pairwise distances along points, meters.
func PathLength(points []orb.Point) (distance float64) {
	for i := 1; i < len(points); i++ {
		distance += geo.Distance(points[i-1], points[i])
	}
	return
}

// WalkMinutes estimates pedestrian travel time for a distance, whole minutes.
func WalkMinutes(distanceMeters float64) int {
	return Round(distanceMeters / WalkPaceMetersPerMinute)
}

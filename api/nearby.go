package api

import (
	"github.com/ambyltd/guide-sub000/geo/nearby"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/types/geopoint"
)

// Nearby runs a proximity search around the origin fix.
// The radius is clamped to the service bounds; the HTTP layer rejects
// out-of-bounds requests before they get here, this is the backstop.
func (g *Guide) Nearby(origin geopoint.Geopoint, radiusMeters float64, filters nearby.Filters) ([]nearby.POI, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if radiusMeters < params.RadiusMin {
		radiusMeters = params.RadiusMin
	}
	if radiusMeters > params.RadiusMax {
		radiusMeters = params.RadiusMax
	}
	if filters.Limit > params.LimitMax {
		filters.Limit = params.LimitMax
	}

	candidates, err := g.POIs.FindNear(origin, radiusMeters)
	if err != nil {
		return nil, err
	}
	return nearby.Find(origin, radiusMeters, candidates, filters, g.Config.Nearby), nil
}

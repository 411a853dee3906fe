package api

import (
	"context"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/ambyltd/guide-sub000/geo/route"
	"github.com/ambyltd/guide-sub000/types/geopoint"
	"github.com/ambyltd/guide-sub000/types/poi"
)

// OptimizeRoute plans a walking itinerary from the start fix.
//
// An explicit candidateIDs list pins the candidate set to those catalog
// entries; an empty list means every POI within search range of the
// start. Identical requests (same start, same candidates, same
// constraints) are served from a memo cache; the optimizer is
// deterministic, so the hit is exact.
func (g *Guide) OptimizeRoute(ctx context.Context, start geopoint.Geopoint, candidateIDs []string, constraints route.Constraints) (route.Route, error) {
	if err := start.Validate(); err != nil {
		return route.Route{}, err
	}

	key, keyErr := routeKey(start, candidateIDs, constraints)
	if keyErr == nil {
		if hit, ok := g.routes.Get(key); ok {
			return hit, nil
		}
	}

	var candidates []poi.POI
	var err error
	if len(candidateIDs) > 0 {
		candidates, err = g.POIs.GetPOIsByIDs(candidateIDs)
	} else {
		searchRadius := g.Config.Route.SearchRadius
		if constraints.MaxDistance > 0 {
			searchRadius = math.Max(searchRadius, constraints.MaxDistance)
		}
		candidates, err = g.POIs.FindNear(start, searchRadius)
	}
	if err != nil {
		return route.Route{}, err
	}

	optimized, err := route.Optimize(ctx, start, candidates, constraints, g.Config.Route)
	if err != nil {
		return route.Route{}, err
	}
	if keyErr == nil {
		g.routes.Add(key, optimized)
	}
	return optimized, nil
}

type routeCache struct {
	lru *lru.Cache[string, route.Route]
}

func newRouteCache(size int) *routeCache {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New[string, route.Route](size)
	if err != nil {
		panic(err)
	}
	return &routeCache{lru: c}
}

func (c *routeCache) Get(key string) (route.Route, bool) { return c.lru.Get(key) }
func (c *routeCache) Add(key string, r route.Route)      { c.lru.Add(key, r) }

func routeKey(start geopoint.Geopoint, candidateIDs []string, constraints route.Constraints) (string, error) {
	hash, err := hashstructure.Hash(struct {
		Lat, Lng    float64
		Candidates  []string
		Constraints route.Constraints
	}{start.Lat, start.Lng, candidateIDs, constraints}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", hash), nil
}

package poidb

import (
	"encoding/binary"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

const earthRadiusMeters = 6371010.0

// leafCellID returns the leaf (level 30) cell containing the point.
func leafCellID(pt orb.Point) s2.CellID {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(pt.Lat(), pt.Lon()))
}

// coverRadius covers a circle of radiusMeters around the point with a
// bounded set of cells. The covering is approximate on purpose; callers
// re-check exact distances against the hits.
func coverRadius(pt orb.Point, radiusMeters float64) s2.CellUnion {
	center := s2.PointFromLatLng(s2.LatLngFromDegrees(pt.Lat(), pt.Lon()))
	region := s2.CapFromCenterAngle(center, s1.Angle(radiusMeters/earthRadiusMeters))
	coverer := &s2.RegionCoverer{MinLevel: 4, MaxLevel: 18, MaxCells: 16}
	return coverer.Covering(region)
}

// cellKey builds an index key: big-endian leaf cell id, then the entity
// id. Big-endian keeps bbolt's byte order identical to cell id order, so
// a covering cell becomes one cursor range scan.
func cellKey(cellID s2.CellID, id string) []byte {
	key := make([]byte, 8+len(id))
	binary.BigEndian.PutUint64(key[:8], uint64(cellID))
	copy(key[8:], id)
	return key
}

func cellRange(cellID s2.CellID) (min, max []byte) {
	min = make([]byte, 8)
	max = make([]byte, 8)
	binary.BigEndian.PutUint64(min, uint64(cellID.RangeMin()))
	binary.BigEndian.PutUint64(max, uint64(cellID.RangeMax()))
	return min, max
}

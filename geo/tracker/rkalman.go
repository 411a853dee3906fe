package tracker

import (
	"fmt"

	rkalman "github.com/regnull/kalman"
)

func newRKalmanFilter(latitude, speed, acceleration float64) (*rkalman.GeoFilter, error) {
	// Estimate process noise.
	processNoise := &rkalman.GeoProcessNoise{
		// We assume the measurements will take place at the approximately the
		// same location, so that we can disregard the earth's curvature.
		BaseLat: latitude,
		// How much do we expect the user to move, meters per second.
		DistancePerSecond: speed,
		// How much do we expect the user's speed to change, meters per second squared.
		SpeedPerSecond: acceleration,
	}
	filter, err := rkalman.NewGeoFilter(processNoise)
	if err != nil {
		return nil, fmt.Errorf("init kalman filter: %w", err)
	}
	return filter, nil
}

package common

// All units are metric: speed in m/s, distance in meters, time in seconds.

const SpeedOfStationaryMax = 0.5   // or 1.8 km/h; slower than this is standing around
const SpeedOfWalkingMean = 1.38    // or 5 km/h
const SpeedOfWalkingFastMax = 2.0  // or 7.2 km/h; tourists don't speedwalk
const SpeedOfCyclingMean = 5.36    // or 19.3 km/h or 12 mph
const SpeedOfCyclingFastMax = 15.0 // or 54 km/h; faster than this is a vehicle

// WalkPaceMetersPerMinute is the pedestrian pace used for walk-time
// estimates. 83 m/min is ~5 km/h.
const WalkPaceMetersPerMinute = 83.0

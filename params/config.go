package params

// GuideConfig groups the analysis configs behind the core operations.
// A nil field means the default.
type GuideConfig struct {
	Nearby    *NearbyConfig
	Trigger   *TriggerConfig
	Geofence  *GeofenceConfig
	Motion    *MotionConfig
	Tracker   *TrackerConfig
	Route     *RouteConfig
	Predictor *PredictorConfig
}

func DefaultGuideConfig() *GuideConfig {
	return &GuideConfig{
		Nearby:    DefaultNearbyConfig,
		Trigger:   DefaultTriggerConfig,
		Geofence:  DefaultGeofenceConfig,
		Motion:    DefaultMotionConfig,
		Tracker:   DefaultTrackerConfig,
		Route:     DefaultRouteConfig,
		Predictor: DefaultPredictorConfig(),
	}
}

// WithDefaults fills any nil fields with defaults.
func (c *GuideConfig) WithDefaults() *GuideConfig {
	if c == nil {
		return DefaultGuideConfig()
	}
	d := DefaultGuideConfig()
	if c.Nearby == nil {
		c.Nearby = d.Nearby
	}
	if c.Trigger == nil {
		c.Trigger = d.Trigger
	}
	if c.Geofence == nil {
		c.Geofence = d.Geofence
	}
	if c.Motion == nil {
		c.Motion = d.Motion
	}
	if c.Tracker == nil {
		c.Tracker = d.Tracker
	}
	if c.Route == nil {
		c.Route = d.Route
	}
	if c.Predictor == nil {
		c.Predictor = d.Predictor
	}
	return c
}

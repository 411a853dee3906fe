package params

import "os"

// InfluxDB export is optional; enabled iff INFLUXDB_URL is set.

var INFLUXDB_URL = os.Getenv("INFLUXDB_URL")
var INFLUXDB_TOKEN = os.Getenv("INFLUXDB_TOKEN")
var INFLUXDB_ORG = envOr("INFLUXDB_ORG", "ambyltd")
var INFLUXDB_BUCKET = envOr("INFLUXDB_BUCKET", "guided")

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

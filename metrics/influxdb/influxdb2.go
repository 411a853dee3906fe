package influxdb

import (
	"log/slog"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/ambyltd/guide-sub000/events"
	"github.com/ambyltd/guide-sub000/params"
)

// ExportSamples posts tracked samples to an InfluxDB Write API.
// Because it accepts a slice, use batches. The Write API will buffer and flush.
// The last error encountered is returned.
func ExportSamples(samples []events.SessionSample) error {
	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(params.INFLUXDB_URL, params.INFLUXDB_TOKEN, opts)
	writeAPI := client.WriteAPI(params.INFLUXDB_ORG, params.INFLUXDB_BUCKET)

	// Errors returns a channel for reading errors which occurs during async writes.
	// Must be called before performing any writes for errors to be collected.
	// The chan is unbuffered and must be drained or the writer will block.
	// https://github.com/influxdata/influxdb-client-go?tab=readme-ov-file#reading-async-errors
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	for _, ss := range samples {
		s := ss.Sample
		p := influxdb2.NewPointWithMeasurement("tracksample").
			SetTime(s.Time).
			AddTag("session", ss.SessionID).
			AddTag("pattern", s.Pattern.String()).
			AddField("latitude", s.Lat).
			AddField("longitude", s.Lng).
			AddField("accuracy", s.Accuracy).
			AddField("altitude", s.Altitude).
			AddField("heading", s.Heading).
			AddField("speed", s.Speed).
			AddField("speed_calculated", s.CalculatedSpeed()).
			AddField("distance_delta", s.DistanceFromPrevious).
			AddField("time_delta_seconds", s.TimeFromPrevious.Seconds()).
			// Add pattern as a field, in addition to as tag, above.
			AddField("pattern", s.Pattern.String())

		writeAPI.WritePoint(p)
	}
	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}

// Subscribe exports every stored sample until the done channel closes.
// Batches flush on a short interval to keep the write path off the
// request hot path.
func Subscribe(done <-chan struct{}) {
	ch := make(chan events.SessionSample, 64)
	sub := events.StoredSampleFeed.Subscribe(ch)
	defer sub.Unsubscribe()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	batch := []events.SessionSample{}
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := ExportSamples(batch); err != nil {
			slog.Error("Failed to export samples to InfluxDB", "error", err, "n", len(batch))
		}
		batch = batch[:0]
	}
	for {
		select {
		case <-done:
			flush()
			return
		case s := <-ch:
			batch = append(batch, s)
		case <-ticker.C:
			flush()
		}
	}
}

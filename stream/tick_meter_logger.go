package stream

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/ambyltd/guide-sub000/common"
)

// tickScanMeter logs import throughput on an interval: records per
// second, bytes per second, running totals. Used by the catalog import
// pipeline, which can chew through hundreds of thousands of records.
type tickScanMeter struct {
	verb       string
	label      time.Time // any value, eg record time
	interval   time.Duration
	started    time.Time
	ticker     *time.Ticker
	nn         atomic.Uint64
	reg        metrics.Registry
	count      metrics.Counter
	size       metrics.Counter
	countMeter metrics.Meter
	sizeMeter  metrics.Meter
}

func newTickScanMeter(verb string, interval time.Duration) *tickScanMeter {
	// Enable metrics package.
	// Won't work without this global setting.
	metrics.Enabled = true

	reg := metrics.NewRegistry()
	rl := &tickScanMeter{
		verb:       verb,
		reg:        reg,
		interval:   interval,
		started:    time.Now(),
		nn:         atomic.Uint64{},
		count:      metrics.NewCounter(),
		size:       metrics.NewCounter(),
		countMeter: metrics.NewMeter(),
		sizeMeter:  metrics.NewMeter(),
	}

	if err := reg.Register("count.count", rl.count); err != nil {
		panic(err)
	}
	if err := reg.Register("size.count", rl.size); err != nil {
		panic(err)
	}
	if err := reg.Register("record.meter", rl.countMeter); err != nil {
		panic(err)
	}
	if err := reg.Register("size.meter", rl.sizeMeter); err != nil {
		panic(err)
	}
	rl.nn.Store(0)
	go rl.run()
	return rl
}

func (rl *tickScanMeter) mark(label time.Time, size int) {
	rl.label = label
	rl.nn.Add(1)
	rl.count.Inc(1)
	rl.size.Inc(int64(size))
	rl.countMeter.Mark(1)
	rl.sizeMeter.Mark(int64(size))
}

func (rl *tickScanMeter) run() {
	rl.ticker = time.NewTicker(rl.interval)
	for range rl.ticker.C {
		rl.log()
	}
}

func (rl *tickScanMeter) log() {
	countSnap := rl.countMeter.Snapshot()
	sizeSnap := rl.sizeMeter.Snapshot()

	slog.Info(rl.verb, "n", humanize.Comma(countSnap.Count()),
		"read.last", rl.label.Format(time.DateTime),
		"rps", common.DecimalToFixed(countSnap.Rate1(), 0),
		"bps", humanize.Bytes(uint64(sizeSnap.Rate1())),
		"total.bytes", humanize.Bytes(uint64(sizeSnap.Count())),
		"running", time.Since(rl.started).Round(time.Second))
}

func (rl *tickScanMeter) stop() {
	if rl == nil || rl.ticker == nil {
		return
	}
	rl.ticker.Stop()
	rl.countMeter.Stop()
	rl.sizeMeter.Stop()
}

// Metered wraps a channel of JSON-able records with throughput logging.
// The meter stops when the input closes.
func Metered[T any](ctx context.Context, verb string, interval time.Duration, timeOf func(T) time.Time, sizeOf func(T) int, in <-chan T) <-chan T {
	meter := newTickScanMeter(verb, interval)
	out := make(chan T)
	go func() {
		defer close(out)
		defer meter.stop()
		for element := range in {
			meter.mark(timeOf(element), sizeOf(element))
			select {
			case <-ctx.Done():
				return
			case out <- element:
			}
		}
	}()
	return out
}

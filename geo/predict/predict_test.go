package predict

import (
	"testing"
	"time"

	"github.com/ambyltd/guide-sub000/common"
	"github.com/ambyltd/guide-sub000/params"
	"github.com/ambyltd/guide-sub000/testing/testdata"
	"github.com/ambyltd/guide-sub000/types/movement"
)

var testNow = time.Date(2024, 6, 1, 10, 1, 0, 0, time.UTC)

func TestPredict_DataFloor(t *testing.T) {
	samples := testdata.Walk(testdata.CathedralePlateau, 2, 7, 10, 5*time.Second)
	p := Predict(samples, testNow, Overrides{}, nil)
	if len(p.Path) != 0 {
		t.Fatalf("below the data floor there should be no path, got %d points", len(p.Path))
	}
	if p.OverallConfidence != params.DefaultPredictorConfig().FloorConfidence {
		t.Errorf("floor confidence expected, got %.3f", p.OverallConfidence)
	}
	if p.Pattern != movement.PatternUnknown {
		t.Errorf("no data should leave the pattern unknown, got %s", p.Pattern)
	}
}

func TestPredict_PathHorizons(t *testing.T) {
	samples := testdata.Walk(testdata.CathedralePlateau, 8, 7, 10, 5*time.Second)
	p := Predict(samples, samples[len(samples)-1].Time, Overrides{}, nil)

	cfg := params.DefaultPredictorConfig()
	if len(p.Path) != len(cfg.Horizons) {
		t.Fatalf("expected %d predicted points, got %d", len(cfg.Horizons), len(p.Path))
	}
	last := samples[len(samples)-1]
	for i, pt := range p.Path {
		if pt.Horizon != cfg.Horizons[i] {
			t.Errorf("point %d horizon %s, want %s", i, pt.Horizon, cfg.Horizons[i])
		}
		if !pt.Time.Equal(last.Time.Add(cfg.Horizons[i])) {
			t.Errorf("point %d time mismatch", i)
		}
		// Distance from the last fix grows with the horizon.
		d := common.Distance(last.Point(), pt.Location.Point())
		want := p.AverageSpeed * cfg.Horizons[i].Seconds()
		if d < want*0.8 || d > want*1.2 {
			t.Errorf("point %d projected %.0fm, want ~%.0fm", i, d, want)
		}
	}
}

func TestPredict_ConfidenceDecaysWithHorizon(t *testing.T) {
	samples := testdata.Walk(testdata.CathedralePlateau, 8, 7, 10, 5*time.Second)
	p := Predict(samples, samples[len(samples)-1].Time, Overrides{}, nil)
	for i := 1; i < len(p.Path); i++ {
		if p.Path[i].Confidence > p.Path[i-1].Confidence {
			t.Errorf("confidence grew with horizon: %.3f -> %.3f",
				p.Path[i-1].Confidence, p.Path[i].Confidence)
		}
	}
	if p.OverallConfidence <= 0 || p.OverallConfidence > 1 {
		t.Errorf("overall confidence out of range: %.3f", p.OverallConfidence)
	}

	// At the longest horizon the linear decay bottoms out; only the
	// floor keeps the value above zero.
	cfg := params.DefaultPredictorConfig()
	furthest := p.Path[len(p.Path)-1]
	if furthest.Confidence != cfg.FloorConfidence {
		t.Errorf("longest horizon confidence %.3f, want floor %.3f",
			furthest.Confidence, cfg.FloorConfidence)
	}
}

func TestPredict_StaleSamplesLowerConfidence(t *testing.T) {
	samples := testdata.Walk(testdata.CathedralePlateau, 8, 7, 10, 5*time.Second)
	fresh := Predict(samples, samples[len(samples)-1].Time, Overrides{}, nil)
	stale := Predict(samples, samples[len(samples)-1].Time.Add(9*time.Minute), Overrides{}, nil)
	if stale.OverallConfidence >= fresh.OverallConfidence {
		t.Errorf("stale confidence %.3f should be below fresh %.3f",
			stale.OverallConfidence, fresh.OverallConfidence)
	}
}

func TestPredict_SteadyWalkIsConsistent(t *testing.T) {
	samples := testdata.Walk(testdata.CathedralePlateau, 10, 7, 5, 5*time.Second)
	p := Predict(samples, samples[len(samples)-1].Time, Overrides{}, nil)
	if p.DirectionStability < 0.9 {
		t.Errorf("straight walk should have high direction stability, got %.3f", p.DirectionStability)
	}
	// Heading north-east by construction.
	if p.AverageDirection < 20 || p.AverageDirection > 70 {
		t.Errorf("expected north-easterly direction, got %.1f", p.AverageDirection)
	}
	if p.AverageSpeed < 1.5 || p.AverageSpeed > 2.5 {
		t.Errorf("average speed out of range: %.2f", p.AverageSpeed)
	}
	if p.Pattern != movement.PatternWalking {
		t.Errorf("steady walk should infer walking, got %s", p.Pattern)
	}
}

func TestPredict_OverridesPinSpeedAndHeading(t *testing.T) {
	samples := testdata.Walk(testdata.CathedralePlateau, 8, 7, 10, 5*time.Second)
	last := samples[len(samples)-1]

	velocity, heading := 3.0, 180.0
	p := Predict(samples, last.Time, Overrides{Velocity: &velocity, Heading: &heading}, nil)

	if p.AverageSpeed != 3.0 {
		t.Errorf("pinned speed not honored: %.2f", p.AverageSpeed)
	}
	if p.AverageDirection != 180.0 {
		t.Errorf("pinned heading not honored: %.1f", p.AverageDirection)
	}

	// Projection must follow the pinned inputs: due south at 3 m/s.
	pt := p.Path[0]
	d := common.Distance(last.Point(), pt.Location.Point())
	want := velocity * pt.Horizon.Seconds()
	if d < want*0.9 || d > want*1.1 {
		t.Errorf("projected %.0fm, want ~%.0fm", d, want)
	}
	if pt.Location.Lat >= last.Lat {
		t.Errorf("heading 180 should move south: %.5f -> %.5f", last.Lat, pt.Location.Lat)
	}
	if p.Pattern != movement.PatternCycling {
		t.Errorf("3 m/s should infer cycling, got %s", p.Pattern)
	}
}

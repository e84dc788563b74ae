package visibility

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/metrics"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/tracing"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/transform"
)

// Evaluator runs the GCRS → ECEF → ENU pipeline. It holds no mutable state
// and is safe for concurrent use.
type Evaluator struct {
	frames transform.FrameTransformer
	logger *slog.Logger
}

// NewEvaluator creates an Evaluator. A nil provider selects
// transform.IAU2006Series.
func NewEvaluator(pn transform.PrecessionNutation, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		frames: transform.NewFrameTransformer(pn),
		logger: logger,
	}
}

// Evaluate computes the satellite's Earth-fixed position, its look angles
// from the observer and whether it clears the elevation threshold.
//
// Evaluate never fails. Non-finite inputs produce non-finite outputs.
func (e *Evaluator) Evaluate(ctx context.Context, q Query) Result {
	return e.evaluate(ctx, q, true)
}

// evaluate runs the pipeline; record controls whether the evaluation counts
// toward the evaluation metrics.
func (e *Evaluator) evaluate(ctx context.Context, q Query, record bool) Result {
	ctx, span := tracing.Tracer().Start(ctx, "visibility.Evaluate")
	defer span.End()

	start := time.Now()

	ecef := e.frames.ToECEF(q.Satellite, q.Epoch, q.EOP)
	obs := transform.NewObserverPosition(q.Observer.LatDeg, q.Observer.LonDeg, q.Observer.HeightM)
	la := transform.ECEFToLookAngles(obs, ecef)

	res := Result{
		ECEF:         ecef,
		ENU:          la.ENU,
		ElevationDeg: la.ElevationDeg,
		AzimuthDeg:   la.AzimuthDeg,
		RangeM:       la.RangeM,
		Visible:      transform.IsVisible(la.ElevationDeg, q.MinElevationDeg),
		SubSatellite: transform.ECEFToGeodetic(ecef),
		EpochUT1:     transform.UT1FromTT(q.Epoch, q.EOP),
	}

	duration := time.Since(start)
	if record {
		metrics.RecordEvaluation(duration, res.Visible)
	}

	span.SetAttributes(
		attribute.Float64("visibility.jd_tt", float64(q.Epoch)),
		attribute.Float64("visibility.elevation_deg", res.ElevationDeg),
		attribute.Bool("visibility.visible", res.Visible),
	)

	e.logger.DebugContext(ctx, "visibility evaluated",
		"component", "visibility",
		"jd_tt", float64(q.Epoch),
		"elevation_deg", res.ElevationDeg,
		"min_elevation_deg", q.MinElevationDeg,
		"visible", res.Visible,
		"duration_us", duration.Microseconds(),
	)

	return res
}

// ReferenceQuery is the calculator's default scenario: an observer in New
// Brunswick, Canada, on 2022-02-18 with a 15° mask.
func ReferenceQuery() Query {
	return Query{
		Satellite:       transform.PositionGCRS{X: 4435144, Y: -2137297, Z: 4670064},
		Epoch:           transform.TTFromJ2000Offset(8084.185608609847),
		EOP:             transform.DefaultEOP(),
		Observer:        transform.Geodetic{LatDeg: 45.920266, LonDeg: -63.342286, HeightM: 0},
		MinElevationDeg: 15,
	}
}

// SelfCheck evaluates the reference scenario and reports an error if the
// pipeline produces non-finite output. Used as a readiness probe; it is not
// counted in the evaluation metrics.
func (e *Evaluator) SelfCheck(ctx context.Context) error {
	res := e.evaluate(ctx, ReferenceQuery(), false)
	for name, v := range map[string]float64{
		"ecef.x":    res.ECEF.X,
		"ecef.y":    res.ECEF.Y,
		"ecef.z":    res.ECEF.Z,
		"elevation": res.ElevationDeg,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("self check: %s is not finite", name)
		}
	}
	return nil
}

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/input"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/metrics"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/tracing"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/visibility"
)

const maxBodyBytes = 16 << 10

var knownFields = func() map[string]bool {
	m := make(map[string]bool, len(input.FieldNames))
	for _, name := range input.FieldNames {
		m[name] = true
	}
	return m
}()

type ecefResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type geodeticResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Height    float64 `json:"height"`
}

// visibilityResponse is the JSON body returned for a successful evaluation.
type visibilityResponse struct {
	ECEF         ecefResponse     `json:"ecef"`
	ElevationDeg float64          `json:"elevation_deg"`
	AzimuthDeg   float64          `json:"azimuth_deg"`
	RangeM       float64          `json:"range_m"`
	Visible      bool             `json:"visible"`
	SubSatellite geodeticResponse `json:"sub_satellite"`
	JDTT         float64          `json:"jd_tt"`
	JDUT1        float64          `json:"jd_ut1"`
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields []*input.FieldError `json:"fields,omitempty"`
}

// finite reports whether every number in the response can be encoded as JSON.
func (r visibilityResponse) finite() bool {
	for _, v := range []float64{
		r.ECEF.X, r.ECEF.Y, r.ECEF.Z,
		r.ElevationDeg, r.AzimuthDeg, r.RangeM,
		r.SubSatellite.Latitude, r.SubSatellite.Longitude, r.SubSatellite.Height,
		r.JDTT, r.JDUT1,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func newVisibilityResponse(q visibility.Query, res visibility.Result) visibilityResponse {
	return visibilityResponse{
		ECEF:         ecefResponse{X: res.ECEF.X, Y: res.ECEF.Y, Z: res.ECEF.Z},
		ElevationDeg: res.ElevationDeg,
		AzimuthDeg:   res.AzimuthDeg,
		RangeM:       res.RangeM,
		Visible:      res.Visible,
		SubSatellite: geodeticResponse{
			Latitude:  res.SubSatellite.LatDeg,
			Longitude: res.SubSatellite.LonDeg,
			Height:    res.SubSatellite.HeightM,
		},
		JDTT:  float64(q.Epoch),
		JDUT1: float64(res.EpochUT1),
	}
}

// visibilityHandler serves GET (query parameters) and POST (JSON object)
// requests for a single visibility evaluation.
func visibilityHandler(logger *slog.Logger, cfg Config, eval *visibility.Evaluator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.Tracer().Start(r.Context(), "api.visibility")
		defer span.End()

		values := r.URL.Query()
		if r.Method == http.MethodPost {
			var err error
			values, err = decodeBody(w, r)
			if err != nil {
				span.SetStatus(codes.Error, "bad request body")
				writeBadRequest(w, err)
				return
			}
		}

		form := input.FormFromValues(values)
		if form.LeapSeconds == "" {
			form.LeapSeconds = strconv.Itoa(cfg.DefaultLeapSeconds)
		}

		q, err := form.Query()
		if err != nil {
			span.SetStatus(codes.Error, "invalid input")
			writeBadRequest(w, err)
			return
		}

		res := eval.Evaluate(ctx, q)
		span.SetAttributes(attribute.Bool("visibility.visible", res.Visible))

		resp := newVisibilityResponse(q, res)
		if !resp.finite() {
			span.SetStatus(codes.Error, "result not finite")
			logger.WarnContext(ctx, "visibility result not finite",
				"component", "api",
				"x", q.Satellite.X, "y", q.Satellite.Y, "z", q.Satellite.Z,
			)
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "result is not finite; check the input magnitudes"})
			return
		}

		if err := writeJSON(w, http.StatusOK, resp); err != nil {
			span.SetStatus(codes.Error, "encode response")
			logger.ErrorContext(ctx, "encode visibility response", "component", "api", "error", err)
			return
		}
		logger.DebugContext(ctx, "visibility request served",
			"component", "api",
			"elevation_deg", res.ElevationDeg,
			"visible", res.Visible,
		)
	})
}

// decodeBody reads a flat JSON object into url.Values so that POST bodies go
// through the same validation as query parameters. Numbers keep their
// original text.
func decodeBody(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode request body: body must contain a single JSON object")
	}

	values := url.Values{}
	var fields []*input.FieldError
	for key, raw := range body {
		if !knownFields[key] {
			fields = append(fields, &input.FieldError{Field: key, Constraint: "is not a known field"})
			continue
		}
		switch v := raw.(type) {
		case nil:
		case json.Number:
			values.Set(key, v.String())
		case string:
			values.Set(key, v)
		case bool:
			values.Set(key, strconv.FormatBool(v))
		default:
			fields = append(fields, &input.FieldError{Field: key, Constraint: "must be a number, string or boolean"})
		}
	}
	if len(fields) > 0 {
		return nil, &input.ValidationError{Fields: fields}
	}
	return values, nil
}

// writeBadRequest reports err as a 400. Validation errors carry their field
// list and are counted per field.
func writeBadRequest(w http.ResponseWriter, err error) {
	var ve *input.ValidationError
	if errors.As(err, &ve) {
		for _, f := range ve.Fields {
			label := f.Field
			if !knownFields[label] {
				label = "unknown"
			}
			metrics.RecordValidationError(label)
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input", Fields: ve.Fields})
		return
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// writeJSON encodes v before committing the status so that an encoding
// failure becomes a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"internal error"}`+"\n")
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

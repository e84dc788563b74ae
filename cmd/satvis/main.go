// Command satvis evaluates whether a satellite is visible from a ground
// observer at one instant and prints its Earth-fixed position and elevation.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/input"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/visibility"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// output is the document printed with -json.
type output struct {
	ECEF struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	} `json:"ecef"`
	ElevationDeg float64 `json:"elevation_deg"`
	AzimuthDeg   float64 `json:"azimuth_deg"`
	RangeM       float64 `json:"range_m"`
	Visible      bool    `json:"visible"`
	SubSatellite struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Height    float64 `json:"height"`
	} `json:"sub_satellite"`
	JDTT  float64 `json:"jd_tt"`
	JDUT1 float64 `json:"jd_ut1"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("satvis", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var form input.Form
	fs.StringVar(&form.X, input.FieldX, "4435144", "satellite GCRS X, meters")
	fs.StringVar(&form.Y, input.FieldY, "-2137297", "satellite GCRS Y, meters")
	fs.StringVar(&form.Z, input.FieldZ, "4670064", "satellite GCRS Z, meters")
	fs.StringVar(&form.JDOffsetTT, input.FieldJDOffsetTT, "8084.185608609847", "epoch as TT days since J2000.0")
	fs.StringVar(&form.EpochUTC, input.FieldEpochUTC, "", "epoch as an RFC 3339 UTC timestamp (replaces -jd_offset_tt)")
	fs.StringVar(&form.Latitude, input.FieldLatitude, "45.920266", "observer geodetic latitude, degrees")
	fs.StringVar(&form.Longitude, input.FieldLongitude, "-63.342286", "observer longitude, degrees east")
	fs.StringVar(&form.Height, input.FieldHeight, "0", "observer height above the WGS-84 ellipsoid, meters")
	fs.StringVar(&form.MinElevation, input.FieldMinElevation, "15", "elevation mask, degrees")
	fs.StringVar(&form.LeapSeconds, input.FieldLeapSeconds, "37", "TAI-UTC, seconds")
	fs.StringVar(&form.UseEOP, input.FieldUseEOP, "false", "apply -dut1, -xp and -yp")
	fs.StringVar(&form.DUT1, input.FieldDUT1, "0", "UT1-UTC, seconds")
	fs.StringVar(&form.Xp, input.FieldXp, "0", "polar motion x, arcseconds")
	fs.StringVar(&form.Yp, input.FieldYp, "0", "polar motion y, arcseconds")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	verbose := fs.Bool("v", false, "log debug output to stderr")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	// -epoch_utc replaces the default day offset unless both were given.
	epochSet, offsetSet := false, false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case input.FieldEpochUTC:
			epochSet = true
		case input.FieldJDOffsetTT:
			offsetSet = true
		}
	})
	if epochSet && !offsetSet {
		form.JDOffsetTT = ""
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	q, err := form.Query()
	if err != nil {
		var ve *input.ValidationError
		if errors.As(err, &ve) {
			for _, f := range ve.Fields {
				fmt.Fprintf(stderr, "invalid -%s: %s\n", f.Field, f.Constraint)
			}
			return exitUsage
		}
		fmt.Fprintln(stderr, "error:", err)
		return exitFailure
	}

	res := visibility.NewEvaluator(nil, logger).Evaluate(ctx, q)

	if *asJSON {
		var out output
		out.ECEF.X, out.ECEF.Y, out.ECEF.Z = res.ECEF.X, res.ECEF.Y, res.ECEF.Z
		out.ElevationDeg = res.ElevationDeg
		out.AzimuthDeg = res.AzimuthDeg
		out.RangeM = res.RangeM
		out.Visible = res.Visible
		out.SubSatellite.Latitude = res.SubSatellite.LatDeg
		out.SubSatellite.Longitude = res.SubSatellite.LonDeg
		out.SubSatellite.Height = res.SubSatellite.HeightM
		out.JDTT = float64(q.Epoch)
		out.JDUT1 = float64(res.EpochUT1)

		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(stderr, "error: encode result:", err)
			return exitFailure
		}
		return exitOK
	}

	status := "not visible"
	if res.Visible {
		status = "visible"
	}
	fmt.Fprintf(stdout, "ECEF (m): X=%.2f, Y=%.2f, Z=%.2f\n", res.ECEF.X, res.ECEF.Y, res.ECEF.Z)
	fmt.Fprintf(stdout, "Elevation: %.2f° — %s\n", res.ElevationDeg, status)
	return exitOK
}

package input

import (
	"errors"
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/transform"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/visibility"
)

func referenceForm() Form {
	return Form{
		X:            "4435144",
		Y:            "-2137297",
		Z:            "4670064",
		JDOffsetTT:   "8084.185608609847",
		Latitude:     "45.920266",
		Longitude:    "-63.342286",
		Height:       "0",
		MinElevation: "15",
		LeapSeconds:  "37",
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error %v is not a *ValidationError", err)
	}
	out := make(map[string]string, len(ve.Fields))
	for _, f := range ve.Fields {
		out[f.Field] = f.Constraint
	}
	return out
}

func TestQueryReference(t *testing.T) {
	q, err := referenceForm().Query()
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if q != visibility.ReferenceQuery() {
		t.Errorf("Query = %+v, want %+v", q, visibility.ReferenceQuery())
	}
}

func TestQueryCommaDecimal(t *testing.T) {
	f := referenceForm()
	f.Latitude = " 45,920266 "
	q, err := f.Query()
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if q.Observer.LatDeg != 45.920266 {
		t.Errorf("latitude = %v, want 45.920266", q.Observer.LatDeg)
	}
}

func TestQueryAggregatesErrors(t *testing.T) {
	f := referenceForm()
	f.X = "abc"
	f.Latitude = "91"
	f.Longitude = ""
	f.MinElevation = "NaN"
	f.LeapSeconds = "1.5"

	_, err := f.Query()
	got := fieldsOf(t, err)

	want := map[string]string{
		FieldX:            "must be a number",
		FieldLatitude:     "must be <= 90",
		FieldLongitude:    "is required",
		FieldMinElevation: "must be a finite number",
		FieldLeapSeconds:  "must be an integer",
	}
	if len(got) != len(want) {
		t.Errorf("got %d field errors %v, want %d", len(got), got, len(want))
	}
	for field, constraint := range want {
		if got[field] != constraint {
			t.Errorf("field %s: constraint = %q, want %q", field, got[field], constraint)
		}
	}

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Error("errors.As should reach the individual *FieldError")
	}
}

func TestQueryEOP(t *testing.T) {
	t.Run("ignored when disabled", func(t *testing.T) {
		f := referenceForm()
		f.DUT1 = "garbage"
		f.Xp = "5"
		q, err := f.Query()
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if q.EOP.DUT1 != 0 || q.EOP.XpArcsec != 0 || q.EOP.YpArcsec != 0 {
			t.Errorf("EOP = %+v, want zero corrections", q.EOP)
		}
	})

	t.Run("read when enabled", func(t *testing.T) {
		f := referenceForm()
		f.UseEOP = "true"
		f.DUT1 = "-0.1"
		f.Xp = "0.05"
		f.Yp = "0.3"
		q, err := f.Query()
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		want := transform.EOP{LeapSeconds: 37, DUT1: -0.1, XpArcsec: 0.05, YpArcsec: 0.3}
		if q.EOP != want {
			t.Errorf("EOP = %+v, want %+v", q.EOP, want)
		}
	})

	t.Run("validated when enabled", func(t *testing.T) {
		f := referenceForm()
		f.UseEOP = "1"
		f.DUT1 = "1.5"
		f.Xp = "0"
		f.Yp = ""
		_, err := f.Query()
		got := fieldsOf(t, err)
		if got[FieldDUT1] != "must be <= 1" {
			t.Errorf("dut1 constraint = %q", got[FieldDUT1])
		}
		if got[FieldYp] != "is required" {
			t.Errorf("yp constraint = %q", got[FieldYp])
		}
	})

	t.Run("bad flag", func(t *testing.T) {
		f := referenceForm()
		f.UseEOP = "maybe"
		got := fieldsOf(t, func() error { _, err := f.Query(); return err }())
		if got[FieldUseEOP] != "must be a boolean" {
			t.Errorf("use_eop constraint = %q", got[FieldUseEOP])
		}
	})
}

func TestQueryEpochUTC(t *testing.T) {
	f := referenceForm()
	f.JDOffsetTT = ""
	f.EpochUTC = "2022-02-18T16:26:07Z"

	q, err := f.Query()
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := transform.TTFromUTC(time.Date(2022, 2, 18, 16, 26, 7, 0, time.UTC), 37)
	if q.Epoch != want {
		t.Errorf("Epoch = %.9f, want %.9f", float64(q.Epoch), float64(want))
	}
}

func TestQueryEpochConflicts(t *testing.T) {
	tests := []struct {
		name       string
		jdOffset   string
		epochUTC   string
		field      string
		constraint string
	}{
		{"both set", "8084.18", "2022-02-18T16:26:07Z", FieldEpochUTC, "cannot be combined with jd_offset_tt"},
		{"neither set", "", "", FieldJDOffsetTT, "is required"},
		{"bad timestamp", "", "19/02/2022", FieldEpochUTC, "must be an RFC 3339 timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := referenceForm()
			f.JDOffsetTT = tt.jdOffset
			f.EpochUTC = tt.epochUTC
			_, err := f.Query()
			got := fieldsOf(t, err)
			if got[tt.field] != tt.constraint {
				t.Errorf("field %s: constraint = %q, want %q", tt.field, got[tt.field], tt.constraint)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		raw     string
		r       Range
		want    float64
		wantErr string
	}{
		{"1.5", Unbounded, 1.5, ""},
		{"-0,25", Unbounded, -0.25, ""},
		{"1e3", Unbounded, 1000, ""},
		{"90", latitudeRange, 90, ""},
		{"-90", latitudeRange, -90, ""},
		{"-90.0001", latitudeRange, 0, "must be >= -90"},
		{"", Unbounded, 0, "is required"},
		{"   ", Unbounded, 0, "is required"},
		{"Inf", Unbounded, 0, "must be a finite number"},
		{"1.2.3", Unbounded, 0, "must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseFloat("f", tt.raw, tt.r)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ParseFloat(%q): %v", tt.raw, err)
				}
				if math.Abs(got-tt.want) > 1e-12 {
					t.Errorf("ParseFloat(%q) = %v, want %v", tt.raw, got, tt.want)
				}
				return
			}
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Constraint != tt.wantErr {
				t.Errorf("ParseFloat(%q) error = %v, want constraint %q", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	if v, err := ParseInt("n", " 37 ", 0, 100); err != nil || v != 37 {
		t.Errorf("ParseInt(37) = %d, %v", v, err)
	}
	if _, err := ParseInt("n", "-1", 0, 100); err == nil || err.Error() != "field n: must be >= 0" {
		t.Errorf("ParseInt(-1) error = %v", err)
	}
	if _, err := ParseInt("n", "101", 0, 100); err == nil || err.Error() != "field n: must be <= 100" {
		t.Errorf("ParseInt(101) error = %v", err)
	}
}

func TestFormFromValues(t *testing.T) {
	v := url.Values{}
	v.Set(FieldX, "1")
	v.Set(FieldLatitude, "2")
	v.Set(FieldUseEOP, "true")
	v.Set(FieldYp, "0.1")

	f := FormFromValues(v)
	if f.X != "1" || f.Latitude != "2" || f.UseEOP != "true" || f.Yp != "0.1" {
		t.Errorf("FormFromValues = %+v", f)
	}
	if f.Y != "" {
		t.Errorf("missing field Y = %q, want empty", f.Y)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []*FieldError{
		{Field: "x", Constraint: "is required"},
		{Field: "y", Constraint: "must be a number"},
	}}
	want := "invalid input: field x: is required; field y: must be a number"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

package transform

import (
	"math"
	"testing"

	satellite "github.com/joshuaferrara/go-satellite"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// assertOrthonormal checks mᵀm = I and det(m) = +1 using gonum as an
// independent linear algebra implementation.
func assertOrthonormal(t *testing.T, name string, m Matrix) {
	t.Helper()

	d := mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})

	if det := mat.Det(d); !scalar.EqualWithinAbs(det, 1, 1e-12) {
		t.Errorf("%s: det = %.15f, want 1", name, det)
	}

	var prod mat.Dense
	prod.Mul(d.T(), d)
	if !mat.EqualApprox(&prod, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-12) {
		t.Errorf("%s: mᵀm is not identity:\n%v", name, mat.Formatted(&prod))
	}
}

func TestElementaryRotationsOrthonormal(t *testing.T) {
	angles := []float64{0, 1e-9, 0.3, -1.2, math.Pi / 2, math.Pi, 5.5}
	for _, a := range angles {
		assertOrthonormal(t, "R1", R1(a))
		assertOrthonormal(t, "R2", R2(a))
		assertOrthonormal(t, "R3", R3(a))
	}
}

// TestR3MatchesGoSatellite checks the frame-rotation sign convention against
// go-satellite's ECIToECEF, which rotates by GMST the same way.
func TestR3MatchesGoSatellite(t *testing.T) {
	v := Vec3{X: 5094.18016, Y: 6127.64465, Z: 6380.34453}
	for _, theta := range []float64{0, 0.5, 2.1, 4.8} {
		got := R3(theta).Apply(v)
		ref := satellite.ECIToECEF(satellite.Vector3{X: v.X, Y: v.Y, Z: v.Z}, theta)

		if !scalar.EqualWithinAbs(got.X, ref.X, 1e-9) ||
			!scalar.EqualWithinAbs(got.Y, ref.Y, 1e-9) ||
			!scalar.EqualWithinAbs(got.Z, ref.Z, 1e-9) {
			t.Errorf("R3(%.2f)·v = %+v, go-satellite = %+v", theta, got, ref)
		}
	}
}

func TestMatrixIdentityIsExact(t *testing.T) {
	v := Vec3{X: 4435144, Y: -2137297, Z: 4670064}
	m := Identity().Mul(R3(0)).Mul(R2(0)).Mul(R1(0))
	if m != Identity() {
		t.Fatalf("product of zero rotations = %v, want identity", m)
	}
	if got := m.Apply(v); got != v {
		t.Errorf("identity applied = %+v, want %+v", got, v)
	}
}

func TestMatrixTransposeInverts(t *testing.T) {
	m := R3(1.1).Mul(R1(-0.4)).Mul(R2(0.25))
	assertOrthonormal(t, "composite", m)

	v := Vec3{X: 7000e3, Y: -1200e3, Z: 300e3}
	back := m.Transpose().Apply(m.Apply(v))
	if d := back.Sub(v).Norm(); d > 1e-6 {
		t.Errorf("round trip error = %.3e m, want < 1e-6", d)
	}
}

func TestMatrixMulOrderMatters(t *testing.T) {
	a, b := R2(0.3), R1(0.4)
	ab, ba := a.Mul(b), b.Mul(a)
	if ab == ba {
		t.Fatal("R2·R1 equals R1·R2; product order is being ignored")
	}
	// Row 0 of R2·R1 has no contribution from R1's sine in column 0.
	if !scalar.EqualWithinAbs(ab[0][0], math.Cos(0.3), 1e-15) {
		t.Errorf("(R2·R1)[0][0] = %v, want cos(0.3)", ab[0][0])
	}
}

func TestVec3(t *testing.T) {
	a := Vec3{X: 3, Y: 4, Z: 12}
	b := Vec3{X: 1, Y: 1, Z: 1}

	if n := a.Norm(); n != 13 {
		t.Errorf("Norm = %v, want 13", n)
	}
	if d := a.Dot(b); d != 19 {
		t.Errorf("Dot = %v, want 19", d)
	}
	if s := a.Sub(b); s != (Vec3{X: 2, Y: 3, Z: 11}) {
		t.Errorf("Sub = %+v", s)
	}
}

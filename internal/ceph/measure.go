package ceph

import (
	"math"

	"cephai-backend/internal/models"
)

// Angle names produced by Measure.
const (
	AngleSNA = "SNA"
	AngleSNB = "SNB"
	AngleANB = "ANB"
)

// roundFloat rounds a float64 to a specified number of decimal places.
func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// angleAt returns the angle in degrees at the vertex formed by the
// segments vertex->a and vertex->b.
func angleAt(vertex, a, b models.Landmark) float64 {
	v1x, v1y := a.X-vertex.X, a.Y-vertex.Y
	v2x, v2y := b.X-vertex.X, b.Y-vertex.Y
	n1 := math.Hypot(v1x, v1y)
	n2 := math.Hypot(v2x, v2y)
	if n1 == 0 || n2 == 0 {
		return 0
	}
	cos := (v1x*v2x + v1y*v2y) / (n1 * n2)
	// clamp against floating point drift before Acos
	cos = math.Max(-1, math.Min(1, cos))
	return angleDegrees(math.Acos(cos))
}

func angleDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Measurement is one named angular measurement in degrees.
type Measurement struct {
	Name    string  `json:"name"`
	Degrees float64 `json:"degrees"`
}

// Measure computes the standard cephalometric angles (SNA, SNB, ANB)
// from a landmark set. Landmarks are matched by name; if S, N and A or
// B are missing the corresponding angles are simply absent. Coordinates
// may be normalized or pixel-space: angles are scale-invariant as long
// as both axes share the same scale.
func Measure(landmarks models.Landmarks) []Measurement {
	byName := make(map[string]models.Landmark, len(landmarks))
	for _, lm := range landmarks {
		byName[lm.Name] = lm
	}

	s, hasS := byName["S"]
	n, hasN := byName["N"]
	a, hasA := byName["A"]
	b, hasB := byName["B"]

	var out []Measurement
	var sna, snb float64
	if hasS && hasN && hasA {
		sna = roundFloat(angleAt(n, s, a), 2)
		out = append(out, Measurement{Name: AngleSNA, Degrees: sna})
	}
	if hasS && hasN && hasB {
		snb = roundFloat(angleAt(n, s, b), 2)
		out = append(out, Measurement{Name: AngleSNB, Degrees: snb})
	}
	if hasS && hasN && hasA && hasB {
		out = append(out, Measurement{Name: AngleANB, Degrees: roundFloat(sna-snb, 2)})
	}
	return out
}

// Interpret maps angular measurements to textbook readings. Unknown
// measurement names are ignored.
func Interpret(measurements []Measurement) []Interpretation {
	var out []Interpretation
	for _, m := range measurements {
		switch m.Name {
		case AngleSNA:
			out = append(out, Interpretation{Name: m.Name, Reading: readSNA(m.Degrees)})
		case AngleSNB:
			out = append(out, Interpretation{Name: m.Name, Reading: readSNB(m.Degrees)})
		case AngleANB:
			out = append(out, Interpretation{Name: m.Name, Reading: readANB(m.Degrees)})
		}
	}
	return out
}

// Interpretation pairs a measurement with its clinical reading.
type Interpretation struct {
	Name    string `json:"name"`
	Reading string `json:"reading"`
}

// Norms: SNA 82 +/- 2, SNB 80 +/- 2, ANB 2 +/- 2 degrees.
func readSNA(deg float64) string {
	switch {
	case deg > 84:
		return "Prognathic maxilla (protruded relative to cranial base)"
	case deg < 80:
		return "Retrognathic maxilla (retruded relative to cranial base)"
	default:
		return "Maxilla normally positioned"
	}
}

func readSNB(deg float64) string {
	switch {
	case deg > 82:
		return "Prognathic mandible (protruded relative to cranial base)"
	case deg < 78:
		return "Retrognathic mandible (retruded relative to cranial base)"
	default:
		return "Mandible normally positioned"
	}
}

func readANB(deg float64) string {
	switch {
	case deg > 4:
		return "Skeletal Class II relationship"
	case deg < 0:
		return "Skeletal Class III relationship"
	default:
		return "Skeletal Class I relationship"
	}
}

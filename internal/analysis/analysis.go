// Package analysis holds the typed face-analysis model and the pure
// functions that produce it: normalization of the untrusted vision-model
// reply and derivation of the presentation payload. Nothing in this
// package performs I/O.
package analysis

// GonialAngleClass is the qualitative jaw-angle classification returned
// by the vision model.
type GonialAngleClass string

const (
	GonialLow   GonialAngleClass = "Low"
	GonialIdeal GonialAngleClass = "Ideal"
	GonialHigh  GonialAngleClass = "High"
)

// Metrics are the per-feature measurements of a FaceAnalysis. All numeric
// fields are bounded; see Normalize for the ranges and fallbacks.
type Metrics struct {
	CanthalTilt        float64          `json:"canthalTilt"`        // degrees, [-10,10], 1 decimal
	GonialAngle        GonialAngleClass `json:"gonialAngle"`        // Low / Ideal / High
	MidfaceCompactness float64          `json:"midfaceCompactness"` // [0.70,1.10], 2 decimals
	FWHR               float64          `json:"fWHR"`               // [1.40,2.20], 2 decimals
	Symmetry           float64          `json:"symmetry"`           // percent, [0,100], 1 decimal
	DermalClarity      float64          `json:"dermalClarity"`      // [0,100], 1 decimal
}

// FaceAnalysis is the normalized result of one vision-model call. Every
// field is always well-defined and within its declared bound; Normalize
// guarantees this regardless of the raw input.
type FaceAnalysis struct {
	Score      int     `json:"score"`      // [0,100]
	Percentile int     `json:"percentile"` // [0,100]
	Metrics    Metrics `json:"metrics"`
	Archetype  string  `json:"archetype"`
	Summary    string  `json:"summary"`
}

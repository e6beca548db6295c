package analysis

import (
	"fmt"
	"math"
)

// SubScores are the four structure scores derived from the raw metrics.
type SubScores struct {
	Orbital    int `json:"orbital"`    // from canthal tilt
	Jaw        int `json:"jaw"`        // from gonial angle class
	Midface    int `json:"midface"`    // from midface compactness
	LowerThird int `json:"lowerThird"` // from fWHR
}

// Optimization is the projected-improvement pair shown on the report.
type Optimization struct {
	Current   int `json:"current"`
	Projected int `json:"projected"`
}

// MetricCard is one labeled row of the report grid.
type MetricCard struct {
	Label string `json:"label"`
	Score int    `json:"score"`
	Value string `json:"value"`
}

// Report is the read-only presentation payload returned to the browser.
// It is computed deterministically from a FaceAnalysis; every derived
// score is independently clamped into [0,100].
type Report struct {
	Score         int          `json:"score"`
	Percentile    int          `json:"percentile"`
	PercentileTop int          `json:"percentileTop"` // display "Top N%"
	Symmetry      float64      `json:"symmetry"`
	DermalClarity float64      `json:"dermalClarity"`
	Archetype     string       `json:"archetype"`
	Summary       string       `json:"summary"`
	SubScores     SubScores    `json:"subScores"`
	Optimization  Optimization `json:"optimization"`
	Cards         []MetricCard `json:"cards"`
}

// Ideal midface compactness and the deviation treated as a full penalty.
const (
	midfaceIdeal        = 0.92
	midfaceMaxDeviation = 0.18
)

// Fixed jaw-projection scores per gonial angle class.
var jawProjectionScores = map[GonialAngleClass]int{
	GonialIdeal: 84,
	GonialHigh:  74,
	GonialLow:   62,
}

// BuildReport derives the presentation payload from a normalized
// analysis. The formulas are fixed; changing any of them changes what
// paying users see, so they are covered one-by-one in tests.
func BuildReport(a FaceAnalysis) Report {
	sub := SubScores{
		Orbital:    orbitalScore(a.Metrics.CanthalTilt),
		Jaw:        jawScore(a.Metrics.GonialAngle),
		Midface:    midfaceScore(a.Metrics.MidfaceCompactness),
		LowerThird: lowerThirdScore(a.Metrics.FWHR),
	}

	current := clampScore(int(math.Round(float64(a.Score)*0.84 + 6)))
	projected := clampScore(maxInt(current+9, a.Score+6))

	return Report{
		Score:         clampScore(a.Score),
		Percentile:    clampScore(a.Percentile),
		PercentileTop: clampScore(100 - a.Percentile),
		Symmetry:      a.Metrics.Symmetry,
		DermalClarity: a.Metrics.DermalClarity,
		Archetype:     a.Archetype,
		Summary:       a.Summary,
		SubScores:     sub,
		Optimization:  Optimization{Current: current, Projected: projected},
		Cards: []MetricCard{
			{Label: "Canthal Tilt Alignment", Score: sub.Orbital, Value: fmt.Sprintf("%+.1f°", a.Metrics.CanthalTilt)},
			{Label: "Jaw Projection Index", Score: sub.Jaw, Value: string(a.Metrics.GonialAngle)},
			{Label: "Lower Third Projection", Score: sub.LowerThird, Value: fmt.Sprintf("%.2f", a.Metrics.FWHR)},
			{Label: "Midface Proportion Ratio", Score: sub.Midface, Value: fmt.Sprintf("%.2f", a.Metrics.MidfaceCompactness)},
			{Label: "Bilateral Symmetry", Score: clampScore(int(math.Round(a.Metrics.Symmetry))), Value: fmt.Sprintf("%.1f%%", a.Metrics.Symmetry)},
			{Label: "Skin Clarity Index", Score: clampScore(int(math.Round(a.Metrics.DermalClarity))), Value: fmt.Sprintf("%.1f%%", a.Metrics.DermalClarity)},
		},
	}
}

// orbitalScore rescales the [-10,10] canthal tilt range linearly into
// [0,100].
func orbitalScore(tilt float64) int {
	return clampScore(int(math.Round((tilt + 10) / 20 * 100)))
}

// jawScore is a fixed lookup; unrecognized classes score as Ideal.
func jawScore(class GonialAngleClass) int {
	if s, ok := jawProjectionScores[class]; ok {
		return s
	}
	return jawProjectionScores[GonialIdeal]
}

// midfaceScore penalizes distance from the ideal compactness of 0.92,
// with a deviation of 0.18 costing the full hundred points.
func midfaceScore(compactness float64) int {
	penalty := math.Abs(compactness-midfaceIdeal) / midfaceMaxDeviation * 100
	return clampScore(int(math.Round(100 - penalty)))
}

// lowerThirdScore rescales the [1.4,2.2] fWHR domain linearly into
// [0,100].
func lowerThirdScore(fwhr float64) int {
	return clampScore(int(math.Round((fwhr - 1.4) / (2.2 - 1.4) * 100)))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

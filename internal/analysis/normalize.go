package analysis

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Defaults substituted when a field is missing or unusable.
const (
	defaultArchetype = "Balanced Symmetry Profile"
	defaultSummary   = "Facial structure indicates balanced geometry with moderate asymmetry concentration."
)

// Normalize converts an arbitrary parsed JSON value into a fully bounded
// FaceAnalysis. It is total: it never fails, it only substitutes the
// per-field fallback when a value is missing, non-numeric, or non-finite.
// Out-of-range values are clamped into the declared range, then rounded
// to the field's precision, then clamped again so rounding can never push
// a value past its bound.
//
// Normalize is a fixed point on its own output: feeding a normalized
// analysis back in (as generic JSON) yields the identical value.
func Normalize(raw any) FaceAnalysis {
	payload, _ := raw.(map[string]any)
	metricsRaw, _ := payload["metrics"].(map[string]any)

	score := int(boundedNumber(payload["score"], 0, 100, 0, 0))
	percentile := int(boundedNumber(payload["percentile"], 0, 100, float64(score), 0))

	return FaceAnalysis{
		Score:      score,
		Percentile: percentile,
		Metrics: Metrics{
			CanthalTilt:        boundedNumber(metricsRaw["canthalTilt"], -10, 10, 0, 1),
			GonialAngle:        parseGonialAngle(metricsRaw["gonialAngle"]),
			MidfaceCompactness: boundedNumber(metricsRaw["midfaceCompactness"], 0.70, 1.10, 0.92, 2),
			FWHR:               boundedNumber(metricsRaw["fWHR"], 1.40, 2.20, 1.85, 2),
			Symmetry:           boundedNumber(metricsRaw["symmetry"], 0, 100, 80, 1),
			DermalClarity:      boundedNumber(metricsRaw["dermalClarity"], 0, 100, 80, 1),
		},
		Archetype: nonBlankString(payload["archetype"], defaultArchetype),
		Summary:   nonBlankString(payload["summary"], defaultSummary),
	}
}

// boundedNumber coerces v to a finite float64, falling back when it is
// not one, then clamps into [min,max], rounds to the given number of
// decimals, and clamps once more.
func boundedNumber(v any, min, max, fallback float64, decimals int) float64 {
	n, ok := coerceNumber(v)
	if !ok {
		n = fallback
	}
	n = clampFloat(n, min, max)
	n = roundTo(n, decimals)
	return clampFloat(n, min, max)
}

// coerceNumber attempts a best-effort numeric interpretation of v.
// Numeric strings are parsed; NaN and infinities are rejected.
func coerceNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// parseGonialAngle maps free-form classifier text onto the enum. Anything
// that is not recognizably "low" or "high" is treated as Ideal: an
// uncertain structural classification defaults to neutral, not extreme.
func parseGonialAngle(v any) GonialAngleClass {
	s, _ := v.(string)
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(normalized, "low"):
		return GonialLow
	case strings.Contains(normalized, "high"):
		return GonialHigh
	default:
		return GonialIdeal
	}
}

func nonBlankString(v any, fallback string) string {
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	if trimmed := strings.TrimSpace(s); trimmed != "" {
		return trimmed
	}
	return fallback
}

func clampFloat(v, min, max float64) float64 {
	return math.Min(max, math.Max(min, v))
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

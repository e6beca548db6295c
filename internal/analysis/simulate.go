package analysis

// LegacyReport is the original flat report shape, kept for the simulated
// demo response served when no vision credential is configured.
type LegacyReport struct {
	OverallScore  int           `json:"overallScore"`
	Metrics       LegacyMetrics `json:"metrics"`
	Deviations    []string      `json:"deviations"`
	Optimizations []string      `json:"optimizations"`
}

// LegacyMetrics are the five headline scores of the legacy shape.
type LegacyMetrics struct {
	Symmetry   int `json:"symmetry"`
	Jawline    int `json:"jawline"`
	Cheekbones int `json:"cheekbones"`
	Skin       int `json:"skin"`
	Eyes       int `json:"eyes"`
}

// Simulated returns the fixed demo payload. It exists so the surrounding
// product remains demonstrable without a vision credential; it must never
// be mixed with real provider data.
func Simulated() LegacyReport {
	return LegacyReport{
		OverallScore: 84,
		Metrics: LegacyMetrics{
			Symmetry:   78,
			Jawline:    82,
			Cheekbones: 75,
			Skin:       90,
			Eyes:       80,
		},
		Deviations: []string{
			"Asymmetric canthal tilt (Left: +3°, Right: +1°)",
			"Mandibular angles lack crisp definition",
			"Mild periorbital hyperpigmentation detected",
		},
		Optimizations: []string{
			"Maxillary expansion to improve jawline vector",
			"Dedicated skincare protocol for hyperpigmentation",
			"Masseter hypertrophy training",
		},
	}
}

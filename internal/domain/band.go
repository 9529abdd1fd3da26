package domain

// Band is a {min,max} tolerance range for a measured parameter.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v falls inside the band, boundaries included.
func (b Band) Contains(v float64) bool { return v >= b.Min && v <= b.Max }

// ThresholdBand holds the two-tier alerting thresholds for one parameter.
// The warning band nests inside the critical band; a value at or beyond a
// boundary triggers that tier (comparisons are inclusive).
type ThresholdBand struct {
	WarnMin float64
	WarnMax float64
	CritMin float64
	CritMax float64
}

// Warn returns the warning-tier band. This is also the "within limits" band
// used by status derivation, so alerting and status share one definition.
func (t ThresholdBand) Warn() Band { return Band{Min: t.WarnMin, Max: t.WarnMax} }

// Thresholds is the process-wide threshold configuration, one band per
// monitored parameter.
type Thresholds struct {
	Temperature ThresholdBand
	Humidity    ThresholdBand
}

// DefaultThresholds are the stock bands: temperature warning [15,25]°C and
// critical [10,30]°C, humidity warning [30,60]%RH and critical [20,70]%RH.
var DefaultThresholds = Thresholds{
	Temperature: ThresholdBand{WarnMin: 15, WarnMax: 25, CritMin: 10, CritMax: 30},
	Humidity:    ThresholdBand{WarnMin: 30, WarnMax: 60, CritMin: 20, CritMax: 70},
}

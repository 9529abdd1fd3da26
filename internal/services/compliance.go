package services

import (
	"fmt"
	"time"

	"shipment-compliance-service/internal/domain"
)

// AlertLevel is the severity of a threshold classification.
type AlertLevel string

const (
	LevelOK       AlertLevel = "OK"
	LevelWarning  AlertLevel = "WARNING"
	LevelCritical AlertLevel = "CRITICAL"
)

// Parameter identifies the measured quantity an excursion concerns.
type Parameter string

const (
	ParamTemperature Parameter = "TEMPERATURE"
	ParamHumidity    Parameter = "HUMIDITY"
)

// Excursion is one non-OK classification of a single reading.
type Excursion struct {
	Parameter Parameter
	Level     AlertLevel
	Value     float64
	Location  string
	Timestamp time.Time
}

// Classify evaluates a reading against the threshold bands, temperature and
// humidity independently, and returns the resulting excursions. A single
// reading can yield zero, one, or two excursions; OK levels are not emitted.
// Pure function, no side effects.
func Classify(r domain.EnvironmentalReading, th domain.Thresholds) []Excursion {
	var excursions []Excursion

	if level := classifyValue(r.Temperature, th.Temperature); level != LevelOK {
		excursions = append(excursions, Excursion{
			Parameter: ParamTemperature,
			Level:     level,
			Value:     r.Temperature,
			Location:  r.Location,
			Timestamp: r.Timestamp,
		})
	}

	if level := classifyValue(r.Humidity, th.Humidity); level != LevelOK {
		excursions = append(excursions, Excursion{
			Parameter: ParamHumidity,
			Level:     level,
			Value:     r.Humidity,
			Location:  r.Location,
			Timestamp: r.Timestamp,
		})
	}

	return excursions
}

// classifyValue places one value in a band. Comparisons are inclusive: a
// value exactly at a threshold triggers that tier.
func classifyValue(v float64, b domain.ThresholdBand) AlertLevel {
	switch {
	case v <= b.CritMin || v >= b.CritMax:
		return LevelCritical
	case v <= b.WarnMin || v >= b.WarnMax:
		return LevelWarning
	default:
		return LevelOK
	}
}

// Unit returns the display unit for a parameter.
func (p Parameter) Unit() string {
	if p == ParamTemperature {
		return "°C"
	}
	return "%RH"
}

// Message renders the excursion as the human-readable alert text sent to
// recipients.
func (e Excursion) Message() string {
	return fmt.Sprintf(
		"%s %s at %s: %g%s at %s",
		e.Parameter, e.Level, e.Location, e.Value, e.Parameter.Unit(),
		e.Timestamp.Format(time.RFC3339),
	)
}

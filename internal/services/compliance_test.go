package services

import (
	"testing"
	"time"

	"shipment-compliance-service/internal/domain"
)

func reading(temp, humidity float64) domain.EnvironmentalReading {
	return domain.EnvironmentalReading{
		Temperature: temp,
		Humidity:    humidity,
		Location:    "Dock 4",
		Timestamp:   time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestClassifyBoundariesInclusive(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		want  AlertLevel
	}{
		{"exactly warn min", 15.0, LevelWarning},
		{"just inside warn min", 15.01, LevelOK},
		{"exactly warn max", 25.0, LevelWarning},
		{"exactly crit min", 10.0, LevelCritical},
		{"exactly crit max", 30.0, LevelCritical},
		{"below crit min", 5.0, LevelCritical},
		{"between warn and crit", 12.0, LevelWarning},
		{"nominal", 20.0, LevelOK},
	}

	for _, tc := range cases {
		got := classifyValue(tc.value, domain.DefaultThresholds.Temperature)
		if got != tc.want {
			t.Errorf("%s: classifyValue(%v) = %s, want %s", tc.name, tc.value, got, tc.want)
		}
	}
}

func TestClassifyIndependentParameters(t *testing.T) {
	// Temperature critical, humidity fine: exactly one excursion.
	excursions := Classify(reading(9.5, 45), domain.DefaultThresholds)
	if len(excursions) != 1 {
		t.Fatalf("expected 1 excursion, got %d", len(excursions))
	}
	if excursions[0].Parameter != ParamTemperature || excursions[0].Level != LevelCritical {
		t.Fatalf("got %s %s, want TEMPERATURE CRITICAL", excursions[0].Parameter, excursions[0].Level)
	}

	// Both out of band: two excursions.
	excursions = Classify(reading(9.5, 75), domain.DefaultThresholds)
	if len(excursions) != 2 {
		t.Fatalf("expected 2 excursions, got %d", len(excursions))
	}

	// Nominal: none.
	if excursions = Classify(reading(20, 45), domain.DefaultThresholds); len(excursions) != 0 {
		t.Fatalf("expected no excursions, got %d", len(excursions))
	}
}

func TestExcursionMessage(t *testing.T) {
	excursions := Classify(reading(9.5, 45), domain.DefaultThresholds)
	if len(excursions) != 1 {
		t.Fatalf("expected 1 excursion, got %d", len(excursions))
	}

	want := "TEMPERATURE CRITICAL at Dock 4: 9.5°C at 2026-01-01T08:00:00Z"
	if got := excursions[0].Message(); got != want {
		t.Fatalf("message = %q, want %q", got, want)
	}
}

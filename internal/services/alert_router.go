package services

import (
	"context"
	"log"
	"sync"

	"shipment-compliance-service/internal/domain"
	"shipment-compliance-service/internal/ports"
)

// DispatchOutcome records one (recipient, alert) send attempt.
type DispatchOutcome struct {
	Contact domain.StaffContact
	Err     error
}

// DispatchReport is the caller-visible result of routing one excursion:
// which recipients were notified successfully and which sends failed.
// Failures never propagate as an error from the dispatch itself.
type DispatchReport struct {
	Excursion Excursion
	Sent      []DispatchOutcome
	Failed    []DispatchOutcome
}

// Recipients filters the roster down to the contacts that should receive an
// alert of the given level: everyone with the ALL preference, plus
// CRITICAL_ONLY contacts when the level is critical.
func Recipients(roster []domain.StaffContact, level AlertLevel) []domain.StaffContact {
	selected := make([]domain.StaffContact, 0, len(roster))
	for _, c := range roster {
		switch c.Preference {
		case domain.PreferenceAll:
			selected = append(selected, c)
		case domain.PreferenceCriticalOnly:
			if level == LevelCritical {
				selected = append(selected, c)
			}
		}
	}
	return selected
}

// DispatchAlert notifies every matching recipient about one excursion
// through the injected notifier. Sends fan out concurrently; a failure for
// one recipient is recorded and logged but never blocks the others. Each
// threshold-crossing reading triggers exactly one round of notifications,
// with no deduplication across readings.
func DispatchAlert(
	ctx context.Context,
	exc Excursion,
	roster []domain.StaffContact,
	notifier ports.Notifier,
) DispatchReport {
	recipients := Recipients(roster, exc.Level)
	message := exc.Message()

	outcomes := make(chan DispatchOutcome, len(recipients))
	sem := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, contact := range recipients {
		wg.Add(1)
		go func(c domain.StaffContact) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			err := notifier.Send(ctx, c, message)
			if err != nil {
				log.Printf(
					"alert dispatch failed: contact=%s parameter=%s level=%s err=%v",
					c.ID, exc.Parameter, exc.Level, err,
				)
			}
			outcomes <- DispatchOutcome{Contact: c, Err: err}
		}(contact)
	}

	wg.Wait()
	close(outcomes)

	report := DispatchReport{Excursion: exc}
	for o := range outcomes {
		if o.Err != nil {
			report.Failed = append(report.Failed, o)
			continue
		}
		report.Sent = append(report.Sent, o)
	}

	return report
}

// EvaluateReading classifies a reading and dispatches one alert round per
// excursion. The returned reports cover every excursion the reading
// produced; an empty slice means the reading was within limits.
func EvaluateReading(
	ctx context.Context,
	reading domain.EnvironmentalReading,
	th domain.Thresholds,
	roster []domain.StaffContact,
	notifier ports.Notifier,
) []DispatchReport {
	excursions := Classify(reading, th)
	if len(excursions) == 0 {
		return nil
	}

	reports := make([]DispatchReport, 0, len(excursions))
	for _, exc := range excursions {
		reports = append(reports, DispatchAlert(ctx, exc, roster, notifier))
	}
	return reports
}

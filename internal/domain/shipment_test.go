package domain

import "testing"

func TestShipmentTransitions(t *testing.T) {
	s := &Shipment{ID: "ship-1", Status: StatePending}

	if err := s.Transition(StateInTransit); err != nil {
		t.Fatalf("pending -> in_transit: %v", err)
	}
	if err := s.Transition(StateAlert); err != nil {
		t.Fatalf("in_transit -> alert: %v", err)
	}
	if err := s.Transition(StateInTransit); err != nil {
		t.Fatalf("alert -> in_transit (resolved): %v", err)
	}
	if err := s.Transition(StateCompleted); err != nil {
		t.Fatalf("in_transit -> completed: %v", err)
	}

	if err := s.Transition(StateInTransit); err == nil {
		t.Fatal("completed shipment must not restart")
	}
}

func TestShipmentInvalidTransitions(t *testing.T) {
	s := &Shipment{ID: "ship-2", Status: StatePending}

	if err := s.Transition(StateCompleted); err == nil {
		t.Fatal("pending -> completed must fail")
	}
	if err := s.Transition(StateAlert); err == nil {
		t.Fatal("pending -> alert must fail")
	}
	if s.Status != StatePending {
		t.Fatalf("failed transition mutated status to %s", s.Status)
	}
}

func TestBandContains(t *testing.T) {
	band := Band{Min: 15, Max: 25}

	for _, v := range []float64{15, 20, 25} {
		if !band.Contains(v) {
			t.Errorf("Contains(%v) = false, want true", v)
		}
	}
	for _, v := range []float64{14.99, 25.01} {
		if band.Contains(v) {
			t.Errorf("Contains(%v) = true, want false", v)
		}
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"shipment-compliance-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisStatusCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStatusCache(client), mr
}

func TestStatusCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	status := &domain.ShipmentStatus{
		ShipmentID: "ship-1",
		Status:     domain.StateInTransit,
		Message:    "Shipment is proceeding as planned",
		Progress: domain.RouteProgress{
			CompletedStops: 1,
			TotalStops:     3,
			TimeProgress:   40,
			StopProgress:   33.3,
		},
	}

	if err := c.SetStatus(ctx, status, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := c.GetStatus(ctx, "ship-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached status, got miss")
	}
	if got.ShipmentID != "ship-1" || got.Progress.CompletedStops != 1 {
		t.Fatalf("cached status = %+v", got)
	}
}

func TestStatusCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.GetStatus(context.Background(), "missing")
	if err != nil {
		t.Fatalf("miss must not error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil on miss, got %+v", got)
	}
}

func TestStatusCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	status := &domain.ShipmentStatus{ShipmentID: "ship-2", Status: domain.StateInTransit}
	if err := c.SetStatus(ctx, status, 10*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	mr.FastForward(11 * time.Second)

	got, err := c.GetStatus(ctx, "ship-2")
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if got != nil {
		t.Fatal("expected miss after TTL expiry")
	}
}

package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRegistryEmpty(t *testing.T) {
	r := NewRegistry(time.Second)
	healthy, statuses := r.CheckAll(context.Background())
	if !healthy {
		t.Fatal("empty registry should be healthy")
	}
	if len(statuses) != 0 {
		t.Fatalf("expected 0 statuses, got %d", len(statuses))
	}
}

func TestRegistryAllHealthy(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register("sessions", Ping("sessions", func(context.Context) error { return nil }))
	r.Register("realtime", Running("realtime", func() bool { return true }))

	healthy, statuses := r.CheckAll(context.Background())
	if !healthy {
		t.Fatal("all-healthy registry should report healthy")
	}
	if len(statuses) != 2 || statuses[0].Name != "sessions" || statuses[1].Name != "realtime" {
		t.Fatalf("unexpected statuses %+v", statuses)
	}
}

func TestRegistryOneUnhealthy(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register("sessions", Ping("sessions", func(context.Context) error { return errors.New("connection refused") }))
	r.Register("janitor", Running("janitor", func() bool { return true }))

	healthy, statuses := r.CheckAll(context.Background())
	if healthy {
		t.Fatal("registry with an unhealthy checker should report unhealthy")
	}
	if statuses[0].Healthy || statuses[0].Detail != "connection refused" {
		t.Errorf("unexpected sessions status %+v", statuses[0])
	}
	if !statuses[1].Healthy {
		t.Error("janitor should be healthy")
	}
}

func TestRegistryFillsMissingName(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register("anon", func(context.Context) Status { return Status{Healthy: true} })

	_, statuses := r.CheckAll(context.Background())
	if statuses[0].Name != "anon" {
		t.Errorf("expected name to default to registration name, got %q", statuses[0].Name)
	}
}

func TestRegistryTimeout(t *testing.T) {
	r := NewRegistry(20 * time.Millisecond)
	r.Register("slow", Ping("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	start := time.Now()
	healthy, _ := r.CheckAll(context.Background())
	if healthy {
		t.Error("timed-out checker should be unhealthy")
	}
	if time.Since(start) > time.Second {
		t.Error("CheckAll should respect the registry timeout")
	}
}

func TestRegistryConcurrentRegister(t *testing.T) {
	r := NewRegistry(0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Register("c", Running("c", func() bool { return true }))
			r.CheckAll(context.Background())
		}()
	}
	wg.Wait()

	_, statuses := r.CheckAll(context.Background())
	if len(statuses) != 20 {
		t.Fatalf("expected 20 statuses, got %d", len(statuses))
	}
}

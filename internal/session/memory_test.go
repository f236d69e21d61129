package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/haschdl/casa-finan/internal/config"
)

func testSession(id string) *Session {
	return &Session{
		ID:        id,
		Plan:      *config.DefaultPlan(),
		UpdatedAt: time.Date(2026, time.August, 12, 10, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, testSession("abc")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "abc" {
		t.Errorf("expected ID abc, got %s", got.ID)
	}
	if got.Plan.TotalBalance != 450000.0 {
		t.Errorf("expected stored plan balance 450000, got %.2f", got.Plan.TotalBalance)
	}
	if len(got.Plan.Payers) != 3 {
		t.Errorf("expected 3 payers in stored plan, got %d", len(got.Plan.Payers))
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStorePutReplaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := testSession("abc")
	if err := store.Put(ctx, first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	second := testSession("abc")
	second.Plan.TotalBalance = 600000.0
	if err := store.Put(ctx, second); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Plan.TotalBalance != 600000.0 {
		t.Errorf("expected replaced plan balance 600000, got %.2f", got.Plan.TotalBalance)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, testSession("abc")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got.Plan.TotalBalance = 0

	again, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.Plan.TotalBalance != 450000.0 {
		t.Errorf("mutating a returned session must not change the stored one, got %.2f", again.Plan.TotalBalance)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, testSession("abc")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := store.Get(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", n)
			if err := store.Put(ctx, testSession(id)); err != nil {
				t.Errorf("Put(%s) error = %v", id, err)
				return
			}
			if _, err := store.Get(ctx, id); err != nil {
				t.Errorf("Get(%s) error = %v", id, err)
			}
		}(i)
	}
	wg.Wait()
}

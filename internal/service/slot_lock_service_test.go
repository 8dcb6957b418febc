package service

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newTestSlotLockService(t *testing.T) *SlotLockService {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := NewSlotLockService(log)
	t.Cleanup(svc.Stop)
	return svc
}

func TestSlotLockMutualExclusion(t *testing.T) {
	svc := newTestSlotLockService(t)

	doctorID := uuid.New()
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	const goroutines = 50
	var counter int
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := svc.Lock(doctorID, date)
			defer unlock()

			// Unsynchronized read-modify-write; only the slot lock protects it.
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Fatalf("expected counter=%d, got %d", goroutines, counter)
	}
}

func TestSlotLockIndependentSlots(t *testing.T) {
	svc := newTestSlotLockService(t)

	doctorID := uuid.New()
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	unlock := svc.Lock(doctorID, date)
	defer unlock()

	// A different date must not block behind the held lock.
	done := make(chan struct{})
	go func() {
		other := svc.Lock(doctorID, date.AddDate(0, 0, 1))
		other()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock for a different date blocked behind an unrelated slot")
	}
}

func TestSlotLockStopIsIdempotent(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := NewSlotLockService(log)
	svc.Stop()
	svc.Stop()
}

func TestSlotLockCleanupKeepsRecentMutexes(t *testing.T) {
	svc := newTestSlotLockService(t)

	doctorID := uuid.New()
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	unlock := svc.Lock(doctorID, date)
	unlock()

	svc.cleanupStale()

	key := doctorID.String() + ":" + date.Format("2006-01-02")
	if _, ok := svc.slotMu.Load(key); !ok {
		t.Fatal("recently used mutex was swept")
	}
}

func TestSlotLockCleanupSweepsStaleMutexes(t *testing.T) {
	svc := newTestSlotLockService(t)

	doctorID := uuid.New()
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	unlock := svc.Lock(doctorID, date)
	unlock()

	key := doctorID.String() + ":" + date.Format("2006-01-02")
	m, _ := svc.slotMu.Load(key)
	m.(*slotMutex).lastUsed.Store(time.Now().Add(-lockStaleThreshold - time.Minute).Unix())

	svc.cleanupStale()

	if _, ok := svc.slotMu.Load(key); ok {
		t.Fatal("stale mutex survived the sweep")
	}
}

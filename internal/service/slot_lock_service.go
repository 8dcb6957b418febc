package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale slot mutexes
	lockCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	lockStaleThreshold = 10 * time.Minute
)

// SlotLockService serializes booking attempts per (doctor, date) slot within a
// single process. The database transaction remains the authoritative guard;
// this keeps concurrent requests for the same slot from piling up on the
// database lock.
//
// Mutexes are created on demand and swept in the background once unused.
type SlotLockService struct {
	log *logrus.Logger

	// Per-slot mutex, keyed by "<doctorID>:<date>"
	slotMu sync.Map // map[string]*slotMutex

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// slotMutex tracks mutex usage for cleanup
type slotMutex struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewSlotLockService creates a new SlotLockService and starts the background
// mutex sweeper. Call Stop() during graceful shutdown.
func NewSlotLockService(log *logrus.Logger) *SlotLockService {
	svc := &SlotLockService{
		log:      log,
		stopChan: make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupLoop()

	return svc
}

// Lock acquires the mutex for one (doctor, date) slot and returns the matching
// unlock function. Callers must invoke it once the guarded insert finished.
func (s *SlotLockService) Lock(doctorID uuid.UUID, date time.Time) func() {
	key := doctorID.String() + ":" + date.Format("2006-01-02")

	m, _ := s.slotMu.LoadOrStore(key, &slotMutex{})
	sm := m.(*slotMutex)
	sm.lastUsed.Store(time.Now().Unix())
	sm.mu.Lock()
	return sm.mu.Unlock
}

// Stop gracefully shuts down the sweeper. Safe to call multiple times.
func (s *SlotLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("SlotLockService stopped")
	}
}

func (s *SlotLockService) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(lockCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanupStale()
		}
	}
}

// cleanupStale removes unused mutexes. TryLock first: a held mutex is in use,
// and the lastUsed check runs inside the lock so a concurrent Lock cannot slip
// between the check and the delete.
func (s *SlotLockService) cleanupStale() {
	cutoff := time.Now().Add(-lockStaleThreshold).Unix()
	var cleaned int

	s.slotMu.Range(func(key, value any) bool {
		sm, ok := value.(*slotMutex)
		if !ok {
			return true
		}

		if sm.mu.TryLock() {
			if sm.lastUsed.Load() < cutoff {
				s.slotMu.Delete(key)
				cleaned++
			}
			sm.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale slot mutexes", cleaned)
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"opd-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// Redis key prefix for the per-slot booked counter
	mirrorKeyPrefix = "appt:booked:"

	// Batch size for startup sync - process 500 slots at a time, with the
	// pipeline created and executed inside the batch loop
	mirrorSyncBatchSize = 500
)

// incrIfExistsScript bumps a slot counter only when the key is present. A key
// lost to a restart or eviction must stay absent until the next full sync:
// recreating it from a bare INCR would start the counter at 1 and undercount
// every booking already in the ledger.
var incrIfExistsScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("INCR", KEYS[1])
end
return -1
`)

// MirrorStore is the slice of the Redis API the mirror uses.
// Satisfied by *redis.Client.
type MirrorStore interface {
	redis.Scripter
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	TxPipeline() redis.Pipeliner
}

// LedgerMirror mirrors per-(doctor, date) booked counts from PostgreSQL into
// Redis so availability checks can skip a database round trip. The mirror is
// strictly advisory: the booking transaction re-counts from the ledger, and a
// missing or stale key simply falls back to a database count.
//
// A nil *LedgerMirror is valid and disables the fast path.
type LedgerMirror struct {
	db          *gorm.DB
	redisClient MirrorStore
	log         *logrus.Logger
}

// slotCount holds one aggregated ledger row during startup sync
type slotCount struct {
	DoctorID        uuid.UUID
	AppointmentDate time.Time
	Booked          int64
}

func NewLedgerMirror(db *gorm.DB, redisClient MirrorStore, log *logrus.Logger) *LedgerMirror {
	return &LedgerMirror{
		db:          db,
		redisClient: redisClient,
		log:         log,
	}
}

// SyncOnStartup rebuilds the mirror from the ledger for today and future
// dates. Should run before accepting traffic; past-dated keys expire on their
// own via TTL.
func (s *LedgerMirror) SyncOnStartup(ctx context.Context) error {
	if s == nil {
		return nil
	}

	s.log.Info("Rebuilding appointment count mirror from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	offset := 0
	totalSynced := 0

	for {
		var results []slotCount

		err := s.db.WithContext(ctx).Model(&entity.Appointment{}).
			Select("doctor_id, appointment_date, COUNT(*) as booked").
			Where("appointment_date >= ?", today).
			Group("doctor_id, appointment_date").
			Order("doctor_id, appointment_date").
			Limit(mirrorSyncBatchSize).
			Offset(offset).
			Scan(&results).Error
		if err != nil {
			return fmt.Errorf("query booked counts at offset %d: %w", offset, err)
		}

		if len(results) == 0 {
			break
		}

		// New pipeline per batch so a large ledger cannot accumulate in memory
		pipe := s.redisClient.TxPipeline()
		for _, result := range results {
			key := s.key(result.DoctorID, result.AppointmentDate)
			pipe.Set(ctx, key, result.Booked, mirrorTTL(result.AppointmentDate))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(results)
		if len(results) < mirrorSyncBatchSize {
			break
		}
		offset += mirrorSyncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Appointment count mirror rebuilt: %d slots in %v", totalSynced, time.Since(startTime))
	return nil
}

// BookedCount returns the mirrored count for a slot. ok is false when the
// mirror is disabled, the key is absent, or Redis errors; callers fall back to
// a ledger count.
func (s *LedgerMirror) BookedCount(ctx context.Context, doctorID uuid.UUID, date time.Time) (int64, bool) {
	if s == nil {
		return 0, false
	}

	count, err := s.redisClient.Get(ctx, s.key(doctorID, date)).Int64()
	if err != nil {
		if err != redis.Nil {
			s.log.Warnf("Failed to read booked count mirror for doctor %s: %+v", doctorID, err)
		}
		return 0, false
	}
	return count, true
}

// IncrBooked bumps the mirrored count after a committed insert. Best effort:
// the increment only applies when the key exists, so an absent slot stays a
// mirror miss and reads count from the ledger. On error the key is deleted so
// the next read falls back instead of serving a stale count.
func (s *LedgerMirror) IncrBooked(ctx context.Context, doctorID uuid.UUID, date time.Time) {
	if s == nil {
		return
	}

	key := s.key(doctorID, date)
	n, err := incrIfExistsScript.Run(ctx, s.redisClient, []string{key}).Int64()
	if err != nil {
		s.log.Warnf("Failed to bump booked count mirror for doctor %s (non-fatal): %+v", doctorID, err)
		if delErr := s.redisClient.Del(ctx, key).Err(); delErr != nil {
			s.log.Warnf("Failed to drop stale mirror key %s: %+v", key, delErr)
		}
		return
	}
	if n < 0 {
		s.log.Debugf("Mirror key %s absent, counts come from the ledger until the next sync", key)
	}
}

func (s *LedgerMirror) key(doctorID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s%s:%s", mirrorKeyPrefix, doctorID, date.Format("2006-01-02"))
}

// mirrorTTL keeps a slot key until 24 hours after its appointment date
func mirrorTTL(date time.Time) time.Duration {
	ttl := time.Until(date.AddDate(0, 0, 1))
	if ttl <= 0 {
		return 1 * time.Minute
	}
	return ttl
}

package lock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// ErrLockTimeout возвращается, если блокировку не удалось получить за отведенное время
var ErrLockTimeout = errors.New("lock: timeout acquiring slot lock")

const retryInterval = 50 * time.Millisecond

// Снимаем блокировку, только если она все еще принадлежит нам
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker распределенная блокировка пар (корт, дата) между экземплярами сервиса
type Locker interface {
	LockSlots(ctx context.Context, courtID int64, dates []time.Time) (release func(), err error)
}

// RedisLock блокировка на SET NX с TTL
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLock подключается к redis и проверяет соединение
func NewRedisLock(addr, password string, db int, ttl, wait time.Duration) (*RedisLock, error) {
	const op = "lock.NewRedisLock"

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisLock{client: client, ttl: ttl, wait: wait}, nil
}

// SlotKeys возвращает отсортированные ключи блокировок для дат корта
// Сортировка исключает взаимную блокировку двух запросов с пересекающимися датами
func SlotKeys(courtID int64, dates []time.Time) []string {
	seen := make(map[string]struct{}, len(dates))
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		key := fmt.Sprintf("lock:court:%d:%s", courtID, d.Format(domain.DateFormat))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// LockSlots берет блокировки на все даты корта
// При неудаче уже взятые блокировки освобождаются
func (r *RedisLock) LockSlots(ctx context.Context, courtID int64, dates []time.Time) (func(), error) {
	const op = "lock.RedisLock.LockSlots"

	token := uuid.NewString()
	keys := SlotKeys(courtID, dates)
	acquired := make([]string, 0, len(keys))

	release := func() {
		// Контекст запроса мог истечь, блокировки все равно нужно снять
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		for _, key := range acquired {
			_ = unlockScript.Run(releaseCtx, r.client, []string{key}, token).Err()
		}
	}

	deadline := time.Now().Add(r.wait)
	for _, key := range keys {
		for {
			ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
			if err != nil {
				release()
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			if ok {
				acquired = append(acquired, key)
				break
			}
			if time.Now().After(deadline) {
				release()
				return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
			}

			select {
			case <-ctx.Done():
				release()
				return nil, fmt.Errorf("%s: %w", op, ctx.Err())
			case <-time.After(retryInterval):
			}
		}
	}

	return release, nil
}

// Close закрывает соединение с redis
func (r *RedisLock) Close() error {
	return r.client.Close()
}

// NopLocker используется, когда распределенная блокировка выключена
type NopLocker struct{}

func (NopLocker) LockSlots(context.Context, int64, []time.Time) (func(), error) {
	return func() {}, nil
}

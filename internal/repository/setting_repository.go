package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "time"

    "github.com/redis/go-redis/v9"
    "github.com/shopspring/decimal"

    "github.com/hostaluna/room-rental/internal/model"
)

// settingCacheKey namespaces the cached tenant configuration in Redis.
const settingCacheKey = "setting:tenant"

// settingCacheTTL bounds staleness if an invalidation is ever lost.
const settingCacheTTL = time.Minute

// SettingRepo serves the tenant pricing configuration.  The row is read
// on every booking operation but almost never written, so reads go
// through Redis when a client is available; a nil client degrades to
// plain database reads.
type SettingRepo struct {
    db  *sql.DB
    rdb *redis.Client
}

// NewSettingRepo returns a SettingRepo.  rdb may be nil.
func NewSettingRepo(db *sql.DB, rdb *redis.Client) *SettingRepo {
    return &SettingRepo{db: db, rdb: rdb}
}

// settingPayload is the Redis cache shape; decimals travel as strings.
type settingPayload struct {
    ID           uint64    `json:"id"`
    PriceDay     string    `json:"price_day"`
    PriceHour    string    `json:"price_hour"`
    TimeMinimum  string    `json:"time_minimum"`
    ActiveImpost bool      `json:"active_impost"`
    Impost       string    `json:"impost"`
    UpdatedAt    time.Time `json:"updated_at"`
}

// Get returns the tenant configuration, cached when possible.
func (r *SettingRepo) Get(ctx context.Context) (model.Setting, error) {
    if r.rdb != nil {
        if raw, err := r.rdb.Get(ctx, settingCacheKey).Bytes(); err == nil {
            var p settingPayload
            if json.Unmarshal(raw, &p) == nil {
                if s, err := p.toModel(); err == nil {
                    return s, nil
                }
            }
        }
    }

    const q = `SELECT id, price_day, price_hour, time_minimum, active_impost, impost, updated_at
		FROM settings LIMIT 1`
    var p settingPayload
    err := r.db.QueryRowContext(ctx, q,
    ).Scan(&p.ID, &p.PriceDay, &p.PriceHour, &p.TimeMinimum, &p.ActiveImpost, &p.Impost, &p.UpdatedAt)
    if err != nil {
        return model.Setting{}, err
    }
    if r.rdb != nil {
        if raw, err := json.Marshal(p); err == nil {
            // cache failures are non-fatal; the next read hits the DB
            _ = r.rdb.Set(ctx, settingCacheKey, raw, settingCacheTTL).Err()
        }
    }
    return p.toModel()
}

// Update rewrites the configuration and drops the cache entry so the
// next read sees the new rates.
func (r *SettingRepo) Update(ctx context.Context, s model.Setting) error {
    const q = `UPDATE settings SET price_day = ?, price_hour = ?, time_minimum = ?,
		active_impost = ?, impost = ? WHERE id = ?`
    _, err := r.db.ExecContext(ctx, q,
        s.PriceDay.String(), s.PriceHour.String(), s.TimeMinimum, s.ActiveImpost, s.Impost.String(), s.ID)
    if err != nil {
        return err
    }
    if r.rdb != nil {
        _ = r.rdb.Del(ctx, settingCacheKey).Err()
    }
    return nil
}

func (p settingPayload) toModel() (model.Setting, error) {
    s := model.Setting{
        ID:           p.ID,
        TimeMinimum:  p.TimeMinimum,
        ActiveImpost: p.ActiveImpost,
        UpdatedAt:    p.UpdatedAt,
    }
    var err error
    if s.PriceDay, err = decimal.NewFromString(p.PriceDay); err != nil {
        return model.Setting{}, err
    }
    if s.PriceHour, err = decimal.NewFromString(p.PriceHour); err != nil {
        return model.Setting{}, err
    }
    if s.Impost, err = decimal.NewFromString(p.Impost); err != nil {
        return model.Setting{}, err
    }
    return s, nil
}

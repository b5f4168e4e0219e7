package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/prepdeck/prepdeck/internal/gamestate"
)

// eventRepo implements EventRepo backed by the global sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *eventRepo) AppendXPEvent(ctx context.Context, data XPEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder.Insert(tableXPEvents).
		Columns("sequence", "timestamp", "amount", "reason", "total_xp", "level").
		Values(seqNum, time.Now().UnixMilli(), data.Amount, data.Reason, data.TotalXP, data.Level).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save xp event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryXPEvents(ctx context.Context, opts QueryOpts) ([]XPEventRecord, error) {
	sel := builder.Select("sequence", "timestamp", "amount", "reason", "total_xp", "level").
		From(builder.Table(tableXPEvents))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query xp events: %w", err)
	}
	defer rows.Close()

	var records []XPEventRecord
	for rows.Next() {
		var (
			rec XPEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.Amount, &rec.Reason, &rec.TotalXP, &rec.Level); err != nil {
			return nil, fmt.Errorf("scan xp event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query xp events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) XPByReason(ctx context.Context) (map[string]int, error) {
	query, args := builder.Select("reason", entsql.Sum("amount")).
		From(builder.Table(tableXPEvents)).
		GroupBy("reason").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query xp by reason: %w", err)
	}
	defer rows.Close()

	byReason := make(map[string]int)
	for rows.Next() {
		var (
			reason string
			sum    int
		)
		if err := rows.Scan(&reason, &sum); err != nil {
			return nil, fmt.Errorf("scan xp by reason: %w", err)
		}
		byReason[reason] = sum
	}
	return byReason, rows.Err()
}

func (r *eventRepo) AppendAchievementEvent(ctx context.Context, achievementID string) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder.Insert(tableAchievements).
		Columns("sequence", "timestamp", "achievement_id").
		Values(seqNum, time.Now().UnixMilli(), achievementID).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save achievement event: %w", err)
	}
	return nil
}

func (r *eventRepo) AchievementUnlocks(ctx context.Context) (map[string]time.Time, error) {
	query, args := builder.Select("achievement_id", entsql.Min("timestamp")).
		From(builder.Table(tableAchievements)).
		GroupBy("achievement_id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query achievement unlocks: %w", err)
	}
	defer rows.Close()

	unlocks := make(map[string]time.Time)
	for rows.Next() {
		var (
			id string
			ts int64
		)
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, fmt.Errorf("scan achievement unlock: %w", err)
		}
		unlocks[id] = time.UnixMilli(ts)
	}
	return unlocks, rows.Err()
}

func (r *eventRepo) Clear(ctx context.Context) error {
	for _, table := range []string{tableXPEvents, tableAchievements} {
		query, args := builder.Delete(table).Query()
		var res sql.Result
		if err := r.drv.Exec(ctx, query, args, &res); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// applyQueryOpts adds QueryOpts filters to sel and orders newest first.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

// NewHistoryRecorder returns a gamestate listener that appends every award
// and unlock to events. Write failures are logged and dropped.
func NewHistoryRecorder(events EventRepo, logger *slog.Logger) gamestate.Listener {
	return func(c gamestate.Change) {
		ctx := context.Background()

		// Walk back from the final total so each award carries the total
		// it produced.
		total := c.TotalXP
		for _, a := range c.Awards {
			total -= a.Amount
		}
		for _, a := range c.Awards {
			total += a.Amount
			err := events.AppendXPEvent(ctx, XPEventData{
				Amount:  a.Amount,
				Reason:  a.Reason,
				TotalXP: total,
				Level:   gamestate.LevelForXP(total),
			})
			if err != nil {
				logger.Warn("record xp event", "reason", a.Reason, "error", err)
			}
		}
		for _, id := range c.Unlocked {
			if err := events.AppendAchievementEvent(ctx, id); err != nil {
				logger.Warn("record achievement", "id", id, "error", err)
			}
		}
	}
}

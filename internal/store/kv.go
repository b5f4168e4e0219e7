package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Keys of the kv table.
const (
	KeyGameState = "prepdeck.gamestate"
	KeyTheme     = "prepdeck.theme"
	KeyReviews   = "prepdeck.reviews"
)

// builder renders queries for the SQLite dialect.
var builder = entsql.Dialect(dialect.SQLite)

// kvTable stores JSON blobs under string keys.
type kvTable struct {
	drv *entsql.Driver
}

func (t *kvTable) get(ctx context.Context, key string) ([]byte, error) {
	query, args := builder.Select("value").
		From(builder.Table(tableKV)).
		Where(entsql.EQ("key", key)).
		Query()

	var rows entsql.Rows
	if err := t.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query %s: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query %s: %w", key, err)
		}
		return nil, ErrNotFound
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return nil, fmt.Errorf("scan %s: %w", key, err)
	}
	return []byte(value), nil
}

func (t *kvTable) put(ctx context.Context, key string, value []byte) error {
	query, args := builder.Insert(tableKV).
		Columns("key", "value", "updated_at").
		Values(key, string(value), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	var res sql.Result
	if err := t.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (t *kvTable) delete(ctx context.Context, key string) error {
	query, args := builder.Delete(tableKV).
		Where(entsql.EQ("key", key)).
		Query()

	var res sql.Result
	if err := t.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var questionColumns = []string{"id", "question", "answer", "category", "summarized", "timestamp"}

// questionRepo implements QuestionRepo.
type questionRepo struct {
	drv *entsql.Driver
}

func (r *questionRepo) Save(ctx context.Context, q SavedQuestion) (SavedQuestion, error) {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return SavedQuestion{}, fmt.Errorf("save question: empty question")
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Timestamp.IsZero() {
		q.Timestamp = time.Now()
	}

	query, args := builder.Insert(tableSavedQuestions).
		Columns(questionColumns...).
		Values(q.ID, q.Question, q.Answer, q.Category, q.Summarized, q.Timestamp.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return SavedQuestion{}, fmt.Errorf("save question: %w", err)
	}
	q.Timestamp = time.UnixMilli(q.Timestamp.UnixMilli())
	return q, nil
}

func (r *questionRepo) Get(ctx context.Context, id string) (SavedQuestion, error) {
	query, args := builder.Select(questionColumns...).
		From(builder.Table(tableSavedQuestions)).
		Where(entsql.EQ("id", id)).
		Query()

	qs, err := r.query(ctx, query, args)
	if err != nil {
		return SavedQuestion{}, err
	}
	if len(qs) == 0 {
		return SavedQuestion{}, ErrNotFound
	}
	return qs[0], nil
}

func (r *questionRepo) List(ctx context.Context) ([]SavedQuestion, error) {
	query, args := builder.Select(questionColumns...).
		From(builder.Table(tableSavedQuestions)).
		OrderBy(entsql.Desc("timestamp"), "id").
		Query()
	return r.query(ctx, query, args)
}

func (r *questionRepo) Delete(ctx context.Context, id string) error {
	query, args := builder.Delete(tableSavedQuestions).
		Where(entsql.EQ("id", id)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *questionRepo) query(ctx context.Context, query string, args []any) ([]SavedQuestion, error) {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query saved questions: %w", err)
	}
	defer rows.Close()

	var out []SavedQuestion
	for rows.Next() {
		var (
			q  SavedQuestion
			ts int64
		)
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Summarized, &ts); err != nil {
			return nil, fmt.Errorf("scan saved question: %w", err)
		}
		q.Timestamp = time.UnixMilli(ts)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query saved questions: %w", err)
	}
	return out, nil
}

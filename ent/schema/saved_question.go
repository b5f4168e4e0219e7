package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// SavedQuestion is one entry of the learner's notebook.
type SavedQuestion struct {
	ent.Schema
}

func (SavedQuestion) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Comment("UUID assigned on save"),
		field.Text("question").
			NotEmpty(),
		field.Text("answer").
			NotEmpty(),
		field.String("category").
			Default(""),
		field.Text("summarized").
			Default("").
			Comment("Short form of the answer shown in lists"),
		field.Time("timestamp").
			Default(time.Now).
			Immutable(),
	}
}

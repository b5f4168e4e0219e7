package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// XPEvent records one XP award.
type XPEvent struct {
	ent.Schema
}

func (XPEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (XPEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Int("amount").
			Positive().
			Comment("XP granted"),
		field.String("reason").
			NotEmpty().
			Comment("Award reason, e.g. flashcard_answer_attempt or tool_first_use:tutor"),
		field.Int("total_xp").
			NonNegative().
			Comment("Total XP after the award"),
		field.Int("level").
			Positive().
			Comment("Level after the award"),
	}
}

func (XPEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("reason"),
	}
}

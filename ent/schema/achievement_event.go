package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// AchievementEvent records an achievement unlock.
type AchievementEvent struct {
	ent.Schema
}

func (AchievementEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AchievementEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("achievement_id").
			NotEmpty().
			Comment("Registry ID, e.g. streak_7"),
	}
}

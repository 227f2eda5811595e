package seeder

import (
	"context"

	"skill-swap/internal/database"
)

// SkillsSeeder installs the approved starter taxonomy. Existing names are left
// untouched so admin edits survive reseeding.
type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

type skillSeed struct {
	Name     string
	Category string
}

var defaultSkills = []skillSeed{
	{Name: "Go", Category: "Programming"},
	{Name: "JavaScript", Category: "Programming"},
	{Name: "TypeScript", Category: "Programming"},
	{Name: "Python", Category: "Programming"},
	{Name: "PostgreSQL", Category: "Programming"},
	{Name: "UI Design", Category: "Design"},
	{Name: "Illustration", Category: "Design"},
	{Name: "Photography", Category: "Design"},
	{Name: "Guitar", Category: "Music"},
	{Name: "Piano", Category: "Music"},
	{Name: "Spanish", Category: "Languages"},
	{Name: "Japanese", Category: "Languages"},
	{Name: "Public Speaking", Category: "Business"},
	{Name: "Marketing", Category: "Business"},
	{Name: "Cooking", Category: "Lifestyle"},
	{Name: "Yoga", Category: "Lifestyle"},
}

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "is_approved", "created_at"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range defaultSkills {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO skills (id, name, category, is_approved)
				 VALUES (gen_random_uuid(), $1, $2, true)
				 ON CONFLICT ((lower(name))) DO NOTHING`,
				it.Name,
				it.Category,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

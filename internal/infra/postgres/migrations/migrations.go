package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 20241122010000_create_quizzes.up.sql
var createQuizzesSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.Add(migrate.Migration{
		Name:    "20241122010000",
		Comment: "create_quizzes",
		Up: func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createQuizzesSQL)
			return err
		},
		Down: func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS quizzes`)
			return err
		},
	})
}

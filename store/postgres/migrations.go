package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the crafting store.
var Migrations = migrate.NewGroup("crafting")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_crafting_projects",
			Version: "20260301000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS crafting_projects (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL,
    item_id     TEXT NOT NULL,
    batch_size  INT NOT NULL DEFAULT 1 CHECK (batch_size > 0),
    progress_cp BIGINT NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_crafting_projects_owner ON crafting_projects (owner_id, id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS crafting_projects`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_crafting_preferences",
			Version: "20260301000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS crafting_preferences (
    owner_id   TEXT PRIMARY KEY,
    strategy   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS crafting_preferences`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_crafting_journal",
			Version: "20260301000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS crafting_journal (
    id        TEXT PRIMARY KEY,
    owner_id  TEXT NOT NULL,
    speaker   TEXT NOT NULL DEFAULT '',
    kind      TEXT NOT NULL,
    message   TEXT NOT NULL DEFAULT '',
    timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_crafting_journal_owner_ts ON crafting_journal (owner_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_crafting_journal_ts ON crafting_journal (timestamp);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS crafting_journal`)
				return err
			},
		},
	)
}

package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_drafts",
		SQL: `CREATE TABLE IF NOT EXISTS drafts (
  id               TEXT        PRIMARY KEY,
  first_name       TEXT        NOT NULL DEFAULT '',
  last_name        TEXT        NOT NULL DEFAULT '',
  email            TEXT        NOT NULL DEFAULT '',
  student_id       TEXT        NOT NULL DEFAULT '',
  affiliation      TEXT        NOT NULL DEFAULT '',
  year             TEXT        NOT NULL DEFAULT '',
  major            TEXT        NOT NULL DEFAULT '',
  title            TEXT        NOT NULL DEFAULT '',
  abstract_text    TEXT        NOT NULL DEFAULT '',
  category         TEXT        NOT NULL DEFAULT '',
  keywords         TEXT        NOT NULL DEFAULT '',
  stored_file_name TEXT        NOT NULL UNIQUE,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  status           TEXT        NOT NULL DEFAULT 'PENDING_REVIEW'
);`,
	},
	{
		Name: "create_index_drafts_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_drafts_status ON drafts (status);`,
	},
	{
		Name: "create_index_drafts_category",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_drafts_category ON drafts (category);`,
	},
	{
		Name: "create_index_drafts_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_drafts_created_at ON drafts (created_at);`,
	},
}

// EnsureMigrated checks if the 'drafts' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	start := time.Now()

	logJSON(map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.drafts') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logJSON(map[string]any{
				"component":      "database",
				"event":          "db_migration_failed",
				"status":         "error",
				"migration_step": step.Name,
				"error_message":  err.Error(),
				"db_host":        dbHost,
				"duration_ms":    time.Since(start).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}

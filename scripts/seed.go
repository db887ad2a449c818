// Dev seeding tool: inserts a few sample todos and tags.
//
// Usage: PG_DSN=postgres://... go run ./scripts/seed.go
// Run migrations first (the API server applies them at boot).
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		log.Fatal("PG_DSN is required")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("pg connect: %v", err)
	}
	defer conn.Close(ctx)

	log.Println("seeding database...")

	due1 := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	due2 := time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC)

	todos := []struct {
		title       string
		description string
		dueDate     *time.Time
		completed   bool
		tags        []string
	}{
		{"Complete project documentation", "Write comprehensive documentation for the ToDo app", &due1, false, []string{"work", "docs"}},
		{"Review pull requests", "Review and merge pending pull requests", &due2, true, []string{"work", "urgent"}},
		{"Update dependencies", "", nil, false, nil},
	}

	for _, t := range todos {
		todoID := uuid.NewString()
		_, err := conn.Exec(ctx, `
			INSERT INTO todos (id, title, description, completed, due_date)
			VALUES ($1, $2, $3, $4, $5)`,
			todoID, t.title, t.description, t.completed, t.dueDate)
		if err != nil {
			log.Fatalf("insert todo %q: %v", t.title, err)
		}
		for i, name := range t.tags {
			var tagID string
			err := conn.QueryRow(ctx, `
				INSERT INTO tags (id, name) VALUES ($1, $2)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`,
				uuid.NewString(), name).Scan(&tagID)
			if err != nil {
				log.Fatalf("ensure tag %q: %v", name, err)
			}
			_, err = conn.Exec(ctx, `
				INSERT INTO todo_tags (todo_id, tag_id, position) VALUES ($1, $2, $3)
				ON CONFLICT (todo_id, tag_id) DO NOTHING`,
				todoID, tagID, i)
			if err != nil {
				log.Fatalf("attach tag %q: %v", name, err)
			}
		}
	}

	log.Println("seeding completed")
}

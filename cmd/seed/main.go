// seed inserts a demo user and a small board into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Arolejosia/kanban-fullstack/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedEmail    = "demo@taskboard.local"
	seedPassword = "demo-password"
)

type taskSpec struct {
	title       string
	description string
	status      string
	priority    string
	dueIn       *time.Duration // nil means no due date
	remindIn    *time.Duration
}

func hours(h int) *time.Duration {
	d := time.Duration(h) * time.Hour
	return &d
}

var board = []taskSpec{
	// Backlog
	{"Write project README", "Cover setup and env vars", "todo", "medium", nil, nil},
	{"Pick a CI provider", "", "todo", "low", nil, nil},
	{"Fix login redirect", "Reported twice last week", "todo", "high", hours(6), hours(2)},

	// In flight
	{"Wire up metrics dashboard", "Grafana board for the API", "in-progress", "medium", hours(20), nil},
	{"Refactor task validation", "", "in-progress", "high", hours(-3), nil}, // already overdue

	// Done column keeps history visible
	{"Set up database schema", "", "done", "medium", nil, nil},
	{"Deploy staging environment", "", "done", "high", nil, nil},

	// Reminder already due; the notifier should pick this up
	{"Renew TLS certificate", "Expires soon", "todo", "high", hours(48), hours(-1)},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var userID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		seedEmail, string(hash),
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert user: %v", err)
	}

	now := time.Now()
	var inserted int
	for _, spec := range board {
		var due, remind *time.Time
		if spec.dueIn != nil {
			t := now.Add(*spec.dueIn)
			due = &t
		}
		if spec.remindIn != nil {
			t := now.Add(*spec.remindIn)
			remind = &t
		}

		_, err := pool.Exec(ctx, `
			INSERT INTO tasks (user_id, title, description, status, priority, due_date, reminder_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			userID, spec.title, spec.description, spec.status, spec.priority, due, remind,
		)
		if err != nil {
			log.Fatalf("insert task %q: %v", spec.title, err)
		}
		inserted++
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:          %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  User ID:       %d\n", userID)
	fmt.Printf("  Tasks created: %d\n", inserted)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: log in:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println()
	fmt.Println("  Step 2: list the board:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/api/tasks -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Step 3: derived views:")
	fmt.Println()
	fmt.Println("    curl -s http://localhost:8080/api/tasks/due-soon -H \"Authorization: Bearer $JWT\"")
	fmt.Println("    curl -s http://localhost:8080/api/tasks/reminders -H \"Authorization: Bearer $JWT\"")
}

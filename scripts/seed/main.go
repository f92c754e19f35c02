// Seed inserts demo users and tasks. Run from project root: go run ./scripts/seed
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"taskboard/internal/database"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

func main() {
	loadEnvFile(".env")

	ctx := context.Background()
	db := database.InitDB(ctx)
	if db == nil {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set or DB connection failed")
		os.Exit(1)
	}
	if err := database.MigrateOrCreateSchema(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	store := repository.NewStore(db)

	names := []string{"Ada Lovelace", "Grace Hopper", "Alan Turing", "Barbara Liskov"}
	users := make([]*models.User, 0, len(names))
	for _, name := range names {
		u := &models.User{Name: name}
		if err := store.CreateUser(ctx, u); err != nil {
			fmt.Fprintln(os.Stderr, "Insert user failed:", err)
			os.Exit(1)
		}
		users = append(users, u)
	}

	const total = 50
	for n := 1; n <= total; n++ {
		assignee := users[n%len(users)]
		creator := users[(n+1)%len(users)]
		task := &models.Task{
			Name:         fmt.Sprintf("Task %d", n),
			Status:       models.StatusPending,
			DueDate:      time.Now().AddDate(0, 0, n%30+1),
			Description:  fmt.Sprintf("Description for task %d", n),
			AssignedToID: assignee.ID,
			CreatedByID:  creator.ID,
		}
		if err := store.CreateTask(ctx, task); err != nil {
			fmt.Fprintln(os.Stderr, "Insert task failed:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Seeded %d users and %d tasks\n", len(users), total)
}

// loadEnvFile reads a .env file and sets env vars (only if not already set).
func loadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.Trim(strings.TrimSpace(line[idx+1:]), `"'`)
		if key != "" && os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
}

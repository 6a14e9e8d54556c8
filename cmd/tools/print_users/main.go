// Command print_users dumps mailing-list submissions from the database,
// newest first.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"randomwalk/pkg/core/store"
)

func main() {
	godotenv.Load()

	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[FATAL] Database init failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	repo := store.NewSignupRepo()
	signups, err := repo.List(ctx, 500)
	if err != nil {
		fmt.Printf("[FATAL] Failed to list signups: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Mailing list:")
	for _, s := range signups {
		fmt.Printf("  %-24s %-40s %s\n", s.Username, s.Email, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("Total: %d\n", len(signups))
}

// Command print_metrics dumps page-view counts from the database, most
// visited first.
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

	repo := store.NewTrackingRepo()
	metrics, err := repo.Metrics(ctx)
	if err != nil {
		fmt.Printf("[FATAL] Failed to load metrics: %v\n", err)
		os.Exit(1)
	}
	total, err := repo.TotalViews(ctx)
	if err != nil {
		fmt.Printf("[FATAL] Failed to total views: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Page views:")
	for _, m := range metrics {
		fmt.Printf("  %-40s %d\n", m.Path, m.Count)
	}
	fmt.Printf("Total: %d\n", total)
}

package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/sgtokt1221/tsukutan-app/internal/cache"
	"github.com/sgtokt1221/tsukutan-app/internal/config"
	"github.com/sgtokt1221/tsukutan-app/internal/database"
	"github.com/sgtokt1221/tsukutan-app/internal/handler"
)

func main() {
	// Parse command line flags
	dryRun := flag.Bool("dry-run", false, "Show what would be flushed without actually flushing")
	flag.Parse()

	startTime := time.Now()
	log.Println("Starting study log rollup job...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migration to ensure tables exist
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Connect to Redis
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	ctx := context.Background()
	buffer := cache.NewStudyLogBuffer(redisCache)

	// Get active users count
	activeUsers, err := buffer.ActiveUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to get active users: %v", err)
	}

	log.Printf("Found %d active users with buffered entries", len(activeUsers))

	if *dryRun {
		log.Println("[DRY RUN] Showing what would be flushed:")
		for _, userID := range activeUsers {
			entries, err := buffer.GetAll(ctx, userID)
			if err != nil {
				log.Printf("  User %d: error reading buffer: %v", userID, err)
				continue
			}
			log.Printf("  User %d: %d entries", userID, len(entries))
		}
		log.Println("[DRY RUN] No changes made")
		return
	}

	// Create study log handler for flush operation
	studyLogHandler := handler.NewStudyLogHandler(db, buffer)

	// Flush all users
	flushedCount, err := studyLogHandler.FlushAll(ctx)
	if err != nil {
		log.Fatalf("Failed to flush study log: %v", err)
	}

	elapsed := time.Since(startTime)
	log.Printf("Rollup complete. Flushed %d users in %v", flushedCount, elapsed)
}

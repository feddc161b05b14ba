package main

import (
	"context"
	"log"

	"github.com/RushabhMehta2005/todo-auth/config"
	"github.com/RushabhMehta2005/todo-auth/database"
	"github.com/RushabhMehta2005/todo-auth/stores"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx := context.Background()
	log.Printf("Running %s migrations...", cfg.DBDriver)

	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := database.ConnectToDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

	case config.DriverMongo:
		client, db, err := database.ConnectToMongo(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer client.Disconnect(ctx)

		if err := stores.EnsureMongoIndexes(ctx, db); err != nil {
			log.Printf("Failed to create indexes: %v", err)
			return
		}
	}

	log.Println("Database migrated successfully!")
}

package database

import (
	"context"
	"fmt"
	"log"

	"github.com/RushabhMehta2005/todo-auth/config"
	"github.com/RushabhMehta2005/todo-auth/stores"
	"gorm.io/gorm"
)

// Stores bundles the persistence layer selected by DB_DRIVER.
type Stores struct {
	Users stores.UserStore
	Todos stores.TodoStore

	close func() error
}

func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the configured backend, optionally migrates it, and wraps
// the user store with the in-memory user cache.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	var s *Stores
	var err error

	switch cfg.DBDriver {
	case config.DriverPostgres:
		s, err = openPostgres(cfg)
	case config.DriverMongo:
		s, err = openMongo(ctx, cfg)
	default:
		err = fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	s.Users = stores.NewCachedUserStore(s.Users, cfg.UserCacheTTL)
	return s, nil
}

func openPostgres(cfg *config.Config) (*Stores, error) {
	db, err := ConnectToDB(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			_ = closeGorm(db)
			return nil, err
		}
	}
	log.Println("Connected to postgres")

	return &Stores{
		Users: stores.NewGormUserStore(db),
		Todos: stores.NewGormTodoStore(db),
		close: func() error { return closeGorm(db) },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Stores, error) {
	client, db, err := ConnectToMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := stores.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}
	log.Println("Connected to MongoDB")

	return &Stores{
		Users: stores.NewMongoUserStore(db),
		Todos: stores.NewMongoTodoStore(db),
		close: func() error { return client.Disconnect(context.Background()) },
	}, nil
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

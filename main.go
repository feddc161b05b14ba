package main

import (
	"context"
	"log"

	"github.com/RushabhMehta2005/todo-auth/config"
	"github.com/RushabhMehta2005/todo-auth/controllers"
	"github.com/RushabhMehta2005/todo-auth/database"
	"github.com/RushabhMehta2005/todo-auth/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	hasher := services.NewHasher(cfg.HashWorkers, cfg.BcryptCost)
	defer hasher.Close()
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration)

	h := controllers.NewHandler(db.Users, db.Todos, hasher, tokens)

	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg)))
	controllers.RegisterRoutes(router, h)

	log.Printf("Server running on http://localhost%s", cfg.Addr())
	if err := router.Run(cfg.Addr()); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	return corsCfg
}

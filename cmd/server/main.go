package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/example/achievepack/internal/cart"
	"github.com/example/achievepack/internal/config"
	"github.com/example/achievepack/internal/database"
	"github.com/example/achievepack/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis ping failed, carts will error until it recovers: %v", err)
	}

	cartStore := cart.NewStore(cart.NewRedisStorage(redisClient))

	app := fiber.New(fiber.Config{
		AppName: "Achieve Pack Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cartStore, cfg)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"

	"github.com/shopfront/backend-shopfront/internal/db"
	"github.com/shopfront/backend-shopfront/internal/promo"
)

type seedProduct struct {
	slug  string
	title string
	price int64
}

var products = []seedProduct{
	{"classic-mug", "Classic Mug", 1200},
	{"logo-tee", "Logo Tee", 2500},
	{"canvas-tote", "Canvas Tote", 1800},
	{"enamel-pin", "Enamel Pin", 600},
	{"poster-print", "Poster Print", 3200},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Fatal("REDIS_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(databaseURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, slug, title, price_cents, active)
			VALUES ($1, $2, $3, $4, TRUE)
			ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title, price_cents = EXCLUDED.price_cents`,
			uuid.NewString(), p.slug, p.title, p.price)
		if err != nil {
			log.Fatalf("seed product %s: %v", p.slug, err)
		}
	}
	log.Printf("seeded %d products", len(products))

	adminEmail := envOrDefault("SEED_ADMIN_EMAIL", "admin@shopfront.example")
	adminPassword := envOrDefault("SEED_ADMIN_PASSWORD", "change-me-now")
	hash, err := argon2id.CreateHash(adminPassword, argon2id.DefaultParams)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, 'Admin', $2, $3, 'admin')
		ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), adminEmail, hash)
	if err != nil {
		log.Fatalf("seed admin user: %v", err)
	}
	log.Printf("admin user ready: %s", adminEmail)

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("parse redis url: %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	store := &promo.Store{R: client, Key: envOrDefault("PROMO_RULES_KEY", "promo:rules")}
	existing, err := client.Exists(ctx, store.Key).Result()
	if err != nil {
		log.Fatalf("check promo rules: %v", err)
	}
	if existing == 0 {
		if err := store.Replace(ctx, promo.DefaultRules); err != nil {
			log.Fatalf("seed promo rules: %v", err)
		}
		log.Printf("seeded %d promo rules", len(promo.DefaultRules))
	} else {
		log.Println("promo rules already present, leaving untouched")
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

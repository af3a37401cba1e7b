package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/greenpc/marketplace/config"
	"github.com/greenpc/marketplace/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@marketplace.local"
	password := "password123"
	name := "Platform Admin"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, name, password_hash, role, seller_verified)
		VALUES ($1, $2, $3, 'admin', false)
		ON CONFLICT (email) DO UPDATE SET role='admin', updated_at=now()
		RETURNING id
	`, email, name, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)

	// Ensure a few starter categories exist, lowercased like the API stores them
	for _, cat := range []string{"electronics", "furniture", "clothing", "books"} {
		if _, err := db.Exec(`
			INSERT INTO categories (name, created_by)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, cat, email); err != nil {
			log.Fatalf("failed to upsert category %s: %v", cat, err)
		}
	}
	fmt.Println("starter categories ensured")
}

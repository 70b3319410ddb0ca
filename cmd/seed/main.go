package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/authguard/config"
	"github.com/oksasatya/authguard/internal/domain/entity"
	"github.com/oksasatya/authguard/internal/domain/valueobject"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	rawEmail := "demo@authguard.dev"
	rawPassword := "DemoPass123"

	email, err := valueobject.NewEmail(rawEmail)
	if err != nil {
		log.Fatalf("invalid seed email: %v", err)
	}
	password, err := valueobject.NewPassword(rawPassword)
	if err != nil {
		log.Fatalf("invalid seed password: %v", err)
	}
	hash, err := password.Hash()
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (id, email, password_hash, status, is_verified, permissions, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, true, $4::text[], now(), now())
		ON CONFLICT (email) DO UPDATE SET updated_at = now()
		RETURNING id
	`, email.String(), hash.String(), string(entity.UserStatusActive), "{user,admin}").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, rawEmail, rawPassword)
}

package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bellacita/salon-api/internal/auth"
	"github.com/bellacita/salon-api/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedSpecialists(context.Background(), pool, 4); err != nil {
		log.Fatalf("seed specialists: %v", err)
	}
	if err := seedServices(context.Background(), pool); err != nil {
		log.Fatalf("seed services: %v", err)
	}
	if err := seedClients(context.Background(), pool, 200); err != nil {
		log.Fatalf("seed clients: %v", err)
	}

	log.Println("seed complete")
}

func seedSpecialists(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d specialists", count)

	// Known password for local development logins.
	hash, err := auth.HashPassword("cambiame123")
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		_, err := tx.Exec(ctx, `
			INSERT INTO specialists (id, name, email, phone, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, uuid.New(), gofakeit.Name(), gofakeit.Email(), gofakeit.Phone(), hash)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("specialists seeded")
	return nil
}

func seedServices(ctx context.Context, pool *pgxpool.Pool) error {
	services := []struct {
		name     string
		category string
		price    int64
		duration int
	}{
		{"Manicure Tradicional", "manos", 25000, 40},
		{"Manicure Semipermanente", "manos", 45000, 60},
		{"Manicure Acrilico", "manos", 80000, 120},
		{"Pedicure Tradicional", "pies", 30000, 45},
		{"Pedicure Spa", "pies", 35000, 60},
		{"Retiro Semipermanente", "manos", 15000, 30},
		{"Decoracion por Una", "manos", 3000, 10},
		{"Cejas con Hilo", "cejas", 20000, 25},
	}

	log.Printf("seeding %d services", len(services))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, s := range services {
		_, err := tx.Exec(ctx, `
			INSERT INTO services (id, name, description, category, price, duration, active, created_at, updated_at)
			VALUES ($1, $2, '', $3, $4, $5, true, now(), now())
			ON CONFLICT (name) DO NOTHING
		`, uuid.New(), s.name, s.category, s.price, s.duration)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("services seeded")
	return nil
}

func seedClients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d clients", count)

	const batchSize = 100

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			email := gofakeit.Email()
			_, err := tx.Exec(ctx, `
				INSERT INTO clients (id, first_name, last_name, alias, document, phone, email, created_at, updated_at)
				VALUES ($1, $2, $3, NULL, $4, $5, $6, now(), now())
			`, uuid.New(), gofakeit.FirstName(), gofakeit.LastName(), gofakeit.SSN(), gofakeit.Phone(), email)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("clients seeded: %d/%d", end, count)
	}

	log.Println("clients seeded")
	return nil
}

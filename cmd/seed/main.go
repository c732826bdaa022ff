// Package main provides a CLI tool for creating the database schema and
// seeding initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"tienda/internal/core/types"
	"tienda/internal/domain/auth"
	"tienda/internal/domain/catalogs/category"
	"tienda/internal/domain/catalogs/product"
	"tienda/internal/infrastructure/storage/postgres"
	"tienda/internal/infrastructure/storage/postgres/auth_repo"
	"tienda/internal/infrastructure/storage/postgres/catalog_repo"
	"tienda/pkg/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		version INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		modified_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		version INT NOT NULL DEFAULT 1,
		category_id UUID NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		unit_price NUMERIC(15,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		modified_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id UUID PRIMARY KEY,
		supplier TEXT NOT NULL,
		total NUMERIC(15,2) NOT NULL DEFAULT 0,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		modified_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS purchase_lines (
		line_id UUID PRIMARY KEY,
		document_id UUID NOT NULL REFERENCES purchases(id) ON DELETE CASCADE,
		line_no INT NOT NULL,
		product_id UUID NOT NULL REFERENCES products(id),
		quantity BIGINT NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(15,2) NOT NULL,
		UNIQUE (document_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id UUID PRIMARY KEY,
		total NUMERIC(15,2) NOT NULL DEFAULT 0,
		created_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		modified_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sale_lines (
		line_id UUID PRIMARY KEY,
		document_id UUID NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		line_no INT NOT NULL,
		product_id UUID NOT NULL REFERENCES products(id),
		quantity BIGINT NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(15,2) NOT NULL,
		UNIQUE (document_id, line_no)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		modified_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id UUID PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id UUID NOT NULL,
		action TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		changes JSONB,
		changes_compressed BYTEA,
		compression_algo TEXT NOT NULL DEFAULT 'none',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := createSchema(ctx, pool); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}
	log.Info("schema ready")

	txManager := postgres.NewTxManager(pool)

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func createSchema(ctx context.Context, pool *postgres.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	userRepo := auth_repo.NewUserRepo(txManager)

	if existing, err := userRepo.GetByUsername(ctx, username); err == nil {
		log.Infow("admin user already exists", "username", username, "user_id", existing.ID)
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := auth.NewUser(username, hash, true)
	if err := userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Infow("admin user created", "username", username, "user_id", user.ID)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, txManager *postgres.TxManager, log *logger.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("check categories: %w", err)
		}
	}
	if count > 0 {
		log.Info("demo data already present, skipping")
		return nil
	}

	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)

	type demoProduct struct {
		name  string
		qty   int64
		price string
	}

	demo := []struct {
		name        string
		description string
		products    []demoProduct
	}{
		{
			name:        "Bebidas",
			description: "Refrescos, jugos y agua",
			products: []demoProduct{
				{"Agua mineral 1L", 50, "1.20"},
				{"Jugo de naranja", 30, "2.50"},
			},
		},
		{
			name:        "Lacteos",
			description: "Leche y derivados",
			products: []demoProduct{
				{"Leche entera 1L", 40, "1.10"},
				{"Queso fresco 500g", 15, "4.75"},
			},
		},
	}

	for _, c := range demo {
		cat := category.NewCategory(c.name, c.description)
		if err := categoryRepo.Create(ctx, cat); err != nil {
			return fmt.Errorf("create category %s: %w", c.name, err)
		}

		for _, p := range c.products {
			prod := product.NewProduct(p.name, "", cat.ID, types.MustMoney(p.price))
			prod.Quantity = p.qty
			if err := productRepo.Create(ctx, prod); err != nil {
				return fmt.Errorf("create product %s: %w", p.name, err)
			}
		}

		log.Infow("seeded category", "name", c.name, "category_id", cat.ID)
	}

	return nil
}

// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the admin user already exists.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"user-auth-service/internal/config"
	"user-auth-service/internal/db"
	menudomain "user-auth-service/internal/menu/domain"
	menurepo "user-auth-service/internal/menu/repository"
	"user-auth-service/internal/security"
	termsdomain "user-auth-service/internal/terms/domain"
	termsrepo "user-auth-service/internal/terms/repository"
	userdomain "user-auth-service/internal/user/domain"
	userrepo "user-auth-service/internal/user/repository"
)

const (
	adminUsername = "admin"
	adminEmail    = "admin@example.com"
	adminPhone    = "13800000000"
	adminPassword = "admin123"

	initialTermsVersion = "1.0"
	initialTermsContent = "By using this service you agree to the terms of service."
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)

	existing, err := users.GetByIdentifier(ctx, adminUsername)
	if err != nil {
		log.Fatalf("lookup admin: %v", err)
	}
	if existing != nil {
		log.Println("seed: admin user already exists, nothing to do")
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	hash, err := hasher.Hash([]byte(adminPassword))
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}

	now := time.Now().UTC()
	admin := &userdomain.User{
		ID:           uuid.New().String(),
		Username:     adminUsername,
		Email:        adminEmail,
		Phone:        adminPhone,
		PasswordHash: hash,
		Role:         userdomain.RoleAdmin,
		Status:       userdomain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("seed: created admin user %s (password %s)", adminUsername, adminPassword)

	terms := termsrepo.NewPostgresRepository(conn)
	if err := terms.Publish(ctx, &termsdomain.Terms{
		ID:        uuid.New().String(),
		Version:   initialTermsVersion,
		Content:   initialTermsContent,
		IsLatest:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		log.Fatalf("publish terms: %v", err)
	}
	log.Printf("seed: published terms version %s", initialTermsVersion)

	menus := menurepo.NewPostgresRepository(conn)
	systemID := uuid.New().String()
	defaultMenus := []*menudomain.Menu{
		{ID: uuid.New().String(), Name: "Home", Path: "/home", Icon: "home", Type: menudomain.MenuTypeMenu, OrderNum: 1, Component: "views/home/index", IsShow: true},
		{ID: systemID, Name: "System", Path: "/system", Icon: "setting", Type: menudomain.MenuTypeCatalog, OrderNum: 2, IsShow: true},
		{ID: uuid.New().String(), ParentID: systemID, Name: "Users", Path: "/system/users", Icon: "user", Type: menudomain.MenuTypeMenu, OrderNum: 3, Component: "views/system/users/index", IsShow: true},
	}
	for _, m := range defaultMenus {
		m.CreatedAt = now
		m.UpdatedAt = now
		if err := menus.Create(ctx, m); err != nil {
			log.Fatalf("create menu %s: %v", m.Name, err)
		}
	}
	log.Printf("seed: created %d default menu entries", len(defaultMenus))
}

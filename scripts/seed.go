//go:build ignore

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hugh/go-collab/internal/auth"
	"github.com/hugh/go-collab/internal/database"
	"github.com/hugh/go-collab/internal/membership"
	"github.com/hugh/go-collab/internal/projects"
	"github.com/hugh/go-collab/pkg/config"
	"github.com/hugh/go-collab/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)
	ctx := context.Background()

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService, auth.NewHasher(cfg.Password.BcryptCost), logger)
	projectService := projects.NewService(db, membership.NewService(db, logger), nil, logger)

	username := os.Getenv("SEED_USERNAME")
	password := os.Getenv("SEED_PASSWORD")
	if username == "" {
		username = "demo"
	}
	if password == "" {
		password = "demo123!"
	}

	user, err := authService.Register(ctx, auth.RegisterInput{
		Username: username,
		Password: password,
		Name:     "Demo",
		Email:    username + "@example.com",
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			fmt.Printf("User already exists: %s\n", username)
			return
		}
		log.Fatalf("failed to create user: %v", err)
	}

	project, err := projectService.CreateProject(ctx, projects.CreateProjectInput{
		Name:        "Demo project",
		Description: "Created by the seed script",
		OwnerID:     user.ID,
	})
	if err != nil && !errors.Is(err, projects.ErrDuplicateProject) {
		log.Fatalf("failed to create project: %v", err)
	}

	token, err := jwtService.Issue(user.ID)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}

	fmt.Printf("User created successfully!\n")
	fmt.Printf("Username: %s\n", user.Username)
	if project != nil {
		fmt.Printf("Project: %s (%s)\n", project.Name, project.ID)
	}
	fmt.Printf("Token: %s\n", token)
}

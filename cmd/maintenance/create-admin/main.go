package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/config"
	"github.com/smarttransit/seat-booking-backend/internal/database"
	"github.com/smarttransit/seat-booking-backend/internal/services"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		dbURLFlag string
		username  string
		password  string
		fullName  string
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.StringVar(&username, "username", "", "admin username")
	flag.StringVar(&password, "password", "", "admin password (at least 8 characters)")
	flag.StringVar(&fullName, "name", "Administrator", "display name")
	flag.Parse()

	_ = godotenv.Load()

	if username == "" || password == "" {
		flag.Usage()
		os.Exit(2)
	}

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	cost := bcrypt.DefaultCost
	if v, err := strconv.Atoi(os.Getenv("BCRYPT_COST")); err == nil {
		cost = v
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	logger := logrus.New()
	// Only CreateAdmin is used, which needs no token service
	authService := services.NewAdminAuthService(database.NewAdminUserRepository(db), nil, cost, logger)

	admin, err := authService.CreateAdmin(context.Background(), username, password, fullName)
	if err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}
	fmt.Printf("Admin user %q created with id %d.\n", admin.Username, admin.ID)
}

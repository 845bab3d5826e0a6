package main

import (
	"context"
	"flag"
	"log"

	"go-storefront-api/internal/config"
	"go-storefront-api/internal/repository"
	"go-storefront-api/internal/service"
	"go-storefront-api/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	username := flag.String("username", "", "customer account username")
	password := flag.String("password", "", "new password (6-72 characters)")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		log.Fatal("both -username and -password are required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db, err := database.ConnectDB(config.Load().Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	accounts := service.NewAccountService(repository.NewAccountRepo(db), repository.NewCustomerRepo(db))
	if err := accounts.ResetPassword(context.Background(), *username, *password); err != nil {
		log.Fatalf("Failed to reset password for %s: %v", *username, err)
	}

	log.Printf("Password for %s has been reset", *username)
}

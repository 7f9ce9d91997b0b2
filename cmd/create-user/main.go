// CLI tool to create a user with a bcrypt-hashed password and an empty coach
// state in setup.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"lg/macrocoach-go-api/internal/coach"
	"lg/macrocoach-go-api/internal/store"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool := store.MustPool(ctx, os.Getenv("DB_URL"))
	defer pool.Close()
	pg := store.NewPostgres(pool)

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	authToken := uuid.New().String()

	userID, err := pg.CreateUser(ctx, username, email, string(hash), authToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	if err := pg.Save(ctx, userID, coach.NewState(coach.DefaultProfile()).Document()); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating coach state: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  Username:   %s\n", username)
	fmt.Printf("  Auth Token: %s\n", authToken)
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/go-taskgate/taskgate/internal/auth"
	"github.com/go-taskgate/taskgate/internal/config"
	"github.com/go-taskgate/taskgate/internal/models"
	"github.com/go-taskgate/taskgate/internal/store"
	"github.com/go-taskgate/taskgate/internal/version"

	"github.com/google/uuid"
	"golang.org/x/term"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cfg := config.Load()

	db, err := store.New(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	switch args[0] {
	case "create-admin":
		runCreateAdmin(ctx, db)
	case "promote":
		runPromote(ctx, db, args[1:])
	case "backfill-status":
		runBackfillStatus(ctx, db)
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("Administrative tool for the task service database")
	fmt.Println("\nCommands:")
	fmt.Println("  create-admin            Create an admin user interactively")
	fmt.Println("  promote EMAIL           Promote an existing user to admin")
	fmt.Println("  backfill-status         Set the default status on tasks that lack one")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

// runCreateAdmin prompts for account details and inserts an admin user
func runCreateAdmin(ctx context.Context, db *store.Store) {
	reader := bufio.NewReader(os.Stdin)

	name, err := prompt(reader, "Name: ")
	if err != nil {
		log.Fatalf("Failed to read name: %v", err)
	}

	email, err := prompt(reader, "Email: ")
	if err != nil {
		log.Fatalf("Failed to read email: %v", err)
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	if password != confirm {
		log.Fatal("Passwords do not match")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	if err := db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Fatalf("A user with email %s already exists", email)
		}
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin user %s created\n", email)
}

// runPromote raises an existing user to the admin role
func runPromote(ctx context.Context, db *store.Store, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: taskgatectl promote EMAIL")
		os.Exit(1)
	}
	email := args[0]

	if err := db.UpdateUserRole(ctx, email, models.RoleAdmin); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Fatalf("No user with email %s", email)
		}
		log.Fatalf("Failed to promote user: %v", err)
	}

	fmt.Printf("User %s promoted to admin\n", email)
}

// runBackfillStatus assigns the default status to legacy tasks without one
func runBackfillStatus(ctx context.Context, db *store.Store) {
	if err := db.BackfillTaskStatus(ctx); err != nil {
		log.Fatalf("Failed to backfill task status: %v", err)
	}
	fmt.Println("Task status backfill complete")
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return "", errors.New("value must not be empty")
	}
	return value, nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(raw), nil
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/kelasku/kelasku-backend/internal/config"
)

// Schema migration runner for the kelasku database. Reads DATABASE_URL from
// the environment (or .env) like the server does, so both always target the
// same instance.
func main() {
	var dir string
	flag.StringVar(&dir, "path", "migrations", "Path to migration files")
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", dir), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("migrate init: %v", err)
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	switch args[0] {
	case "up":
		report(m.Up(), "migrated up")
	case "down":
		report(m.Down(), "migrated down")
	case "steps":
		n := requireInt(args, "steps")
		report(m.Steps(n), fmt.Sprintf("stepped %d", n))
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %t\n", version, dirty)
	case "force":
		v := requireInt(args, "force")
		if err := m.Force(v); err != nil {
			log.Fatalf("force: %v", err)
		}
		fmt.Printf("forced version to %d\n", v)
	default:
		printUsage()
	}
}

func report(err error, msg string) {
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("%s: %v", msg, err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("no change")
		return
	}
	fmt.Println(msg)
}

func requireInt(args []string, cmd string) int {
	if len(args) < 2 {
		log.Fatalf("%s requires a numeric argument", cmd)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatalf("invalid number %q: %v", args[1], err)
	}
	return n
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, steps <n>, version, force <version>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

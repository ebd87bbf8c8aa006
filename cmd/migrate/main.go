package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/cli"
	"github.com/RileyK05/basic-crm/internal/config"
	"github.com/RileyK05/basic-crm/internal/database"
)

// migrationFile is one versioned schema change found on disk
type migrationFile struct {
	Version uint
	Name    string
}

var upFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

func main() {
	// Load .env file (ignore error if not present)
	_ = godotenv.Load()

	cli.Info("=== CRM Migration Runner ===\n")

	command := "help"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up", "down", "status", "reset":
	case "help":
		printUsage()
		os.Exit(0)
	default:
		printUsage()
		os.Exit(1)
	}

	steps := 1
	if command == "down" && len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n <= 0 {
			cli.Fatal(fmt.Sprintf("Invalid step count %q", os.Args[2]))
		}
		steps = n
	}

	cfg, err := config.Load()
	if err != nil {
		cli.Fatal(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	ctx := context.Background()

	cli.Info("Connecting to database...")
	db, err := database.Open(ctx, cfg)
	if err != nil {
		cli.Fatal(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()
	cli.Success("✓ Connected to database\n")

	migrator, err := database.NewMigrator(ctx, db, cfg.Database.MigrationsPath, zap.NewNop())
	if err != nil {
		cli.Fatal(fmt.Sprintf("Failed to prepare migrations: %v", err))
	}
	defer migrator.Close()

	path := cfg.Database.MigrationsPath
	switch command {
	case "up":
		err = runUp(migrator)
	case "down":
		err = runDown(migrator, steps)
	case "status":
		err = showStatus(migrator, path)
	case "reset":
		err = runReset(migrator)
	}
	if err != nil {
		cli.Error(fmt.Sprintf("Migration %s failed: %v", command, err))
		migrator.Close()
		db.Close()
		os.Exit(1)
	}

	cli.Info("\n✨ Operation completed successfully!")
}

func runUp(m *database.Migrator) error {
	cli.Info("Running pending migrations...\n")
	before, _, err := m.Version()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		return err
	}
	after, _, err := m.Version()
	if err != nil {
		return err
	}

	if after == before {
		cli.Success("✓ All migrations are up to date")
		return nil
	}
	cli.Success(fmt.Sprintf("✓ Migrated from version %d to %d", before, after))
	return nil
}

func runDown(m *database.Migrator, steps int) error {
	cli.Info(fmt.Sprintf("Rolling back %d migration(s)...\n", steps))
	version, _, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		cli.Warning("No migrations to rollback")
		return nil
	}
	if err := m.Down(steps); err != nil {
		return err
	}

	after, _, err := m.Version()
	if err != nil {
		return err
	}
	cli.Success(fmt.Sprintf("✓ Rolled back from version %d to %d", version, after))
	return nil
}

func runReset(m *database.Migrator) error {
	cli.Warning("Resetting database (rollback all + reapply all)...\n")
	if err := m.Reset(); err != nil {
		return err
	}
	cli.Success("✓ Schema rebuilt from scratch")
	return nil
}

func showStatus(m *database.Migrator, dir string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}

	files, err := listMigrations(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		cli.Warning(fmt.Sprintf("No migration files found in %s", dir))
		return nil
	}

	cli.Info("Migration Status:\n")
	fmt.Printf("%s%-10s %-40s %-12s%s\n", cli.ColorBold, "VERSION", "NAME", "STATUS", cli.ColorReset)
	fmt.Println(strings.Repeat("-", 64))

	applied := 0
	for _, f := range files {
		status, color := "pending", cli.ColorYellow
		switch {
		case f.Version == version && dirty:
			status, color = "dirty", cli.ColorRed
		case f.Version <= version:
			status, color = "applied", cli.ColorGreen
			applied++
		}
		fmt.Printf("%-10s %-40s %s%-12s%s\n",
			fmt.Sprintf("%06d", f.Version), f.Name, color, status, cli.ColorReset)
	}

	fmt.Println(strings.Repeat("-", 64))
	cli.Info(fmt.Sprintf("\nSummary: %d/%d migrations applied", applied, len(files)))
	if dirty {
		cli.Warning(fmt.Sprintf("Version %d is dirty; fix the schema by hand and rerun", version))
	}
	return nil
}

func listMigrations(dir string) ([]migrationFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []migrationFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := upFilePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}
		version, err := strconv.ParseUint(matches[1], 10, 64)
		if err != nil {
			continue
		}
		files = append(files, migrationFile{Version: uint(version), Name: matches[2]})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Version < files[j].Version
	})
	return files, nil
}

func printUsage() {
	fmt.Println("Usage: migrate [command]")
	fmt.Println("\nCommands:")
	fmt.Println("  up          - Apply all pending migrations")
	fmt.Println("  down [n]    - Roll back the last n migrations (default 1)")
	fmt.Println("  status      - Show current migration status")
	fmt.Println("  reset       - Roll back every migration and reapply them")
	fmt.Println("  help        - Show this help message")
	fmt.Println("\nMigration files live in MIGRATIONS_PATH (default: migrations)")
	fmt.Println("as NNNNNN_name.up.sql / NNNNNN_name.down.sql pairs.")
}

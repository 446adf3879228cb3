// Command seed populates the database with sample organizations and
// employees for local testing.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/rosterhq/rosterd/config"
	"github.com/rosterhq/rosterd/directory"
)

type seedEmployee struct {
	firstName  string
	lastName   string
	email      string
	phone      string
	department string
	position   string
	location   string
	status     string
}

var sampleData = map[string][]seedEmployee{
	"TechCorp Inc.": {
		{"John", "Doe", "john.doe@techcorp.com", "+1-555-0101", "Engineering", "Senior Software Engineer", "San Francisco", directory.StatusActive},
		{"Jane", "Smith", "jane.smith@techcorp.com", "+1-555-0102", "Engineering", "Software Engineer", "New York", directory.StatusActive},
		{"Mike", "Johnson", "mike.johnson@techcorp.com", "+1-555-0103", "Product", "Product Manager", "San Francisco", directory.StatusActive},
		{"Sarah", "Wilson", "sarah.wilson@techcorp.com", "+1-555-0104", "HR", "HR Manager", "New York", directory.StatusNotStarted},
	},
	"Marketing Solutions Ltd.": {
		{"Alex", "Brown", "alex.brown@marketing.com", "+1-555-0201", "Marketing", "Marketing Director", "Los Angeles", directory.StatusActive},
		{"Emily", "Davis", "emily.davis@marketing.com", "+1-555-0202", "Marketing", "Content Strategist", "Chicago", directory.StatusActive},
		{"David", "Miller", "david.miller@marketing.com", "+1-555-0203", "Sales", "Sales Manager", "Los Angeles", directory.StatusTerminated},
	},
	"Global Consulting Group": {
		{"Lisa", "Garcia", "lisa.garcia@consulting.com", "+1-555-0301", "Consulting", "Senior Consultant", "Boston", directory.StatusActive},
		{"Robert", "Taylor", "robert.taylor@consulting.com", "+1-555-0302", "Consulting", "Consultant", "Seattle", directory.StatusActive},
		{"Amanda", "Anderson", "amanda.anderson@consulting.com", "+1-555-0303", "Finance", "Financial Analyst", "Boston", directory.StatusNotStarted},
	},
}

// seedOrder keeps the output stable across runs.
var seedOrder = []string{"TechCorp Inc.", "Marketing Solutions Ltd.", "Global Consulting Group"}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(context.Background(), log); err != nil {
		log.Error("seed failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := directory.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	repo := directory.NewRepository(db)

	total := 0
	for _, name := range seedOrder {
		org, err := repo.CreateOrganization(ctx, name)
		if err != nil {
			return fmt.Errorf("create organization %q: %w", name, err)
		}
		log.Info("organization created", "id", org.ID, "name", org.Name)

		for _, e := range sampleData[name] {
			emp := &directory.Employee{
				FirstName:      e.firstName,
				LastName:       e.lastName,
				Email:          e.email,
				Phone:          ptr(e.phone),
				Department:     ptr(e.department),
				Position:       ptr(e.position),
				Location:       ptr(e.location),
				Company:        ptr(name),
				Status:         e.status,
				OrganizationID: org.ID,
			}
			if err := repo.CreateEmployee(ctx, emp); err != nil {
				return fmt.Errorf("create employee %s: %w", e.email, err)
			}
			total++
		}
	}

	log.Info("seeding complete", "organizations", len(seedOrder), "employees", total)
	return nil
}

func ptr(s string) *string { return &s }

package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrOrganizationNotFound is returned when an organization scope does not
// exist.
var ErrOrganizationNotFound = errors.New("organization not found")

// Repository provides roster persistence over Postgres.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps an open database handle.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetOrganization fetches one organization by ID.
func (r *Repository) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	var org Organization
	err := r.db.GetContext(ctx, &org,
		"SELECT id, name, created_at, updated_at FROM organizations WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get organization %d: %w", id, err)
	}
	return &org, nil
}

// CreateOrganization inserts an organization together with its default
// column configuration.
func (r *Repository) CreateOrganization(ctx context.Context, name string) (*Organization, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create organization: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var org Organization
	err = tx.GetContext(ctx, &org,
		"INSERT INTO organizations (name) VALUES ($1) RETURNING id, name, created_at, updated_at", name)
	if err != nil {
		return nil, fmt.Errorf("insert organization %q: %w", name, err)
	}

	for order, column := range defaultColumns {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO organization_column_configs (organization_id, column_name, display_order, is_visible)
			 VALUES ($1, $2, $3, TRUE)`,
			org.ID, column, order)
		if err != nil {
			return nil, fmt.Errorf("insert default column config %q: %w", column, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create organization: %w", err)
	}
	return &org, nil
}

// Search runs one filtered, paginated roster query. The request must already
// be normalized.
func (r *Repository) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	where, args := buildSearchWhere(req)

	countQuery, countArgs, err := sqlx.In("SELECT COUNT(*) FROM employees WHERE "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("expand count query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(countQuery), countArgs...); err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}

	pageQuery, pageArgs, err := sqlx.In(
		`SELECT id, first_name, last_name, email, phone, department, position,
		        location, company, status, organization_id, created_at, updated_at
		 FROM employees WHERE `+where+`
		 ORDER BY updated_at DESC
		 LIMIT ? OFFSET ?`,
		append(args, req.PageSize, (req.Page-1)*req.PageSize)...)
	if err != nil {
		return nil, fmt.Errorf("expand search query: %w", err)
	}

	employees := []Employee{}
	if err := r.db.SelectContext(ctx, &employees, r.db.Rebind(pageQuery), pageArgs...); err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}

	return &SearchResult{
		Employees:  employees,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages(total, req.PageSize),
	}, nil
}

// AvailableFilters collects the distinct non-null filter values present in
// one organization's roster.
func (r *Repository) AvailableFilters(ctx context.Context, orgID int64) (*FilterOptions, error) {
	opts := &FilterOptions{
		Locations:   []string{},
		Companies:   []string{},
		Departments: []string{},
		Positions:   []string{},
	}

	for _, q := range []struct {
		column string
		dest   *[]string
	}{
		{"location", &opts.Locations},
		{"company", &opts.Companies},
		{"department", &opts.Departments},
		{"position", &opts.Positions},
	} {
		query := fmt.Sprintf(
			"SELECT DISTINCT %s FROM employees WHERE organization_id = $1 AND %s IS NOT NULL ORDER BY %s",
			q.column, q.column, q.column)
		if err := r.db.SelectContext(ctx, q.dest, query, orgID); err != nil {
			return nil, fmt.Errorf("distinct %s: %w", q.column, err)
		}
	}
	return opts, nil
}

// VisibleColumns returns the organization's visible columns in display
// order.
func (r *Repository) VisibleColumns(ctx context.Context, orgID int64) ([]ColumnConfig, error) {
	configs := []ColumnConfig{}
	err := r.db.SelectContext(ctx, &configs,
		`SELECT id, organization_id, column_name, display_order, is_visible, created_at, updated_at
		 FROM organization_column_configs
		 WHERE organization_id = $1 AND is_visible = TRUE
		 ORDER BY display_order`, orgID)
	if err != nil {
		return nil, fmt.Errorf("visible columns for organization %d: %w", orgID, err)
	}
	return configs, nil
}

// CreateEmployee inserts one roster entry. Used by the seeding tool.
func (r *Repository) CreateEmployee(ctx context.Context, e *Employee) error {
	err := r.db.GetContext(ctx, e,
		`INSERT INTO employees
		   (first_name, last_name, email, phone, department, position, location, company, status, organization_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, first_name, last_name, email, phone, department, position,
		           location, company, status, organization_id, created_at, updated_at`,
		e.FirstName, e.LastName, e.Email, e.Phone, e.Department, e.Position,
		e.Location, e.Company, e.Status, e.OrganizationID)
	if err != nil {
		return fmt.Errorf("insert employee %s: %w", e.Email, err)
	}
	return nil
}

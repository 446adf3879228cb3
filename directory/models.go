package directory

import "time"

// Employment status values. TERMINATED employees are excluded from search
// results unless the request asks for them.
const (
	StatusActive     = "ACTIVE"
	StatusNotStarted = "NOT_STARTED"
	StatusTerminated = "TERMINATED"
)

// ValidStatus reports whether s is a known employment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusNotStarted, StatusTerminated:
		return true
	}
	return false
}

// Organization scopes every employee and column configuration.
type Organization struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Employee is one roster entry.
type Employee struct {
	ID             int64     `db:"id" json:"id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Email          string    `db:"email" json:"email"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Department     *string   `db:"department" json:"department,omitempty"`
	Position       *string   `db:"position" json:"position,omitempty"`
	Location       *string   `db:"location" json:"location,omitempty"`
	Company        *string   `db:"company" json:"company,omitempty"`
	Status         string    `db:"status" json:"status"`
	OrganizationID int64     `db:"organization_id" json:"organization_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ColumnConfig controls which employee columns an organization displays and
// in what order.
type ColumnConfig struct {
	ID             int64     `db:"id" json:"id"`
	OrganizationID int64     `db:"organization_id" json:"organization_id"`
	ColumnName     string    `db:"column_name" json:"column_name"`
	DisplayOrder   int       `db:"display_order" json:"display_order"`
	IsVisible      bool      `db:"is_visible" json:"is_visible"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// FilterOptions are the distinct values available for narrowing a search
// within one organization.
type FilterOptions struct {
	Locations   []string `json:"locations"`
	Companies   []string `json:"companies"`
	Departments []string `json:"departments"`
	Positions   []string `json:"positions"`
}

// SearchResult is one page of matches plus pagination arithmetic.
type SearchResult struct {
	Employees  []Employee `json:"employees"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// defaultColumns is the column configuration a new organization starts with.
var defaultColumns = []string{
	"first_name", "last_name", "email", "phone",
	"department", "position", "location", "company", "status",
}

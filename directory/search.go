package directory

import (
	"errors"
	"fmt"
	"strings"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// ErrInvalidSearch is wrapped by every search validation failure.
var ErrInvalidSearch = errors.New("invalid search request")

// SearchRequest carries the filter criteria for one roster search. All
// filters are optional except the organization scope.
type SearchRequest struct {
	Search            string   `json:"search,omitempty"`
	Status            []string `json:"status,omitempty"`
	Locations         []string `json:"locations,omitempty"`
	Companies         []string `json:"companies,omitempty"`
	Departments       []string `json:"departments,omitempty"`
	Positions         []string `json:"positions,omitempty"`
	OrganizationID    int64    `json:"organization_id"`
	Page              int      `json:"page,omitempty"`
	PageSize          int      `json:"page_size,omitempty"`
	IncludeTerminated bool     `json:"include_terminated,omitempty"`
}

// Normalize applies defaults and validates the request.
func (r *SearchRequest) Normalize() error {
	if r.OrganizationID <= 0 {
		return fmt.Errorf("%w: organization_id is required", ErrInvalidSearch)
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Page < 1 {
		return fmt.Errorf("%w: page must be at least 1, got %d", ErrInvalidSearch, r.Page)
	}
	if r.PageSize == 0 {
		r.PageSize = defaultPageSize
	}
	if r.PageSize < 1 || r.PageSize > maxPageSize {
		return fmt.Errorf("%w: page_size must be between 1 and %d, got %d",
			ErrInvalidSearch, maxPageSize, r.PageSize)
	}
	for _, s := range r.Status {
		if !ValidStatus(s) {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidSearch, s)
		}
	}
	r.Search = strings.TrimSpace(r.Search)
	return nil
}

// buildSearchWhere assembles the WHERE clause and its arguments with `?`
// bindvars; the repository rebinds them for Postgres. Kept pure so query
// shaping is testable without a database.
func buildSearchWhere(r SearchRequest) (string, []any) {
	clauses := []string{"organization_id = ?"}
	args := []any{r.OrganizationID}

	if r.Search != "" {
		clauses = append(clauses, "(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?)")
		term := "%" + r.Search + "%"
		args = append(args, term, term, term)
	}

	switch {
	case len(r.Status) > 0:
		clauses = append(clauses, "status IN (?)")
		args = append(args, r.Status)
	case !r.IncludeTerminated:
		clauses = append(clauses, "status <> ?")
		args = append(args, StatusTerminated)
	}

	for _, f := range []struct {
		column string
		values []string
	}{
		{"location", r.Locations},
		{"company", r.Companies},
		{"department", r.Departments},
		{"position", r.Positions},
	} {
		if len(f.values) > 0 {
			clauses = append(clauses, f.column+" IN (?)")
			args = append(args, f.values)
		}
	}

	return strings.Join(clauses, " AND "), args
}

// totalPages is the classic ceiling division for the pagination footer.
func totalPages(total, pageSize int) int {
	return (total + pageSize - 1) / pageSize
}

package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/flight-explorer/internal/database"
	"github.com/iliyamo/flight-explorer/internal/model"
)

// CountryRepo reads the `countries` table.
type CountryRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewCountryRepo constructs a CountryRepo with the provided DB handle.
func NewCountryRepo(db *sql.DB, d database.Dialect) *CountryRepo {
	return &CountryRepo{db: db, dialect: d}
}

// ListAll returns every country ordered by name.
func (r *CountryRepo) ListAll(ctx context.Context) ([]model.Country, error) {
	const q = "SELECT name, code FROM countries ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s rowScanner) (model.Country, error) {
		var name, code sql.NullString
		if err := s.Scan(&name, &code); err != nil {
			return model.Country{}, err
		}
		return model.Country{Name: str(name), Code: str(code)}, nil
	})
}

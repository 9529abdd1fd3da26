package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shipment-compliance-service/internal/domain"
)

// SQLite-backed implementation of the StaffRepository port.
type SqliteStaffRepository struct{ DB *sql.DB }

func NewSqliteStaffRepository(db *sql.DB) *SqliteStaffRepository {
	return &SqliteStaffRepository{DB: db}
}

// Return the full staff roster ordered by contact id.
func (s *SqliteStaffRepository) ListContacts(ctx context.Context) ([]domain.StaffContact, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite staff repository: DB is nil")
	}

	query := `
	SELECT contact_id, name, phone, email, alert_preference
	FROM staff_contacts
	ORDER BY contact_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: query staff_contacts table: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.StaffContact, 0, 16)
	for rows.Next() {
		var (
			c    domain.StaffContact
			pref string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &pref); err != nil {
			return nil, fmt.Errorf("list contacts: scan row: %w", err)
		}
		c.Preference = domain.AlertPreference(pref)
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: row iteration: %w", err)
	}

	return contacts, nil
}

package musicdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LookupByID reports whether a customer with the given numeric id exists.
func (d *DB) LookupByID(ctx context.Context, customerID string) (bool, error) {
	id, err := strconv.Atoi(strings.TrimSpace(customerID))
	if err != nil {
		return false, nil
	}

	var found int
	err = d.db.QueryRowContext(ctx,
		"SELECT CustomerId FROM Customer WHERE CustomerId = ?", id,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup customer by id: %w", err)
	}
	return true, nil
}

// LookupByPhone returns the first customer id with an exact phone match,
// or "" when there is none.
func (d *DB) LookupByPhone(ctx context.Context, phone string) (string, error) {
	return d.lookupFirst(ctx,
		"SELECT CustomerId FROM Customer WHERE Phone = ? ORDER BY CustomerId LIMIT 1",
		strings.TrimSpace(phone))
}

// LookupByEmail returns the first customer id with an exact email match,
// or "" when there is none.
func (d *DB) LookupByEmail(ctx context.Context, email string) (string, error) {
	return d.lookupFirst(ctx,
		"SELECT CustomerId FROM Customer WHERE Email = ? ORDER BY CustomerId LIMIT 1",
		strings.TrimSpace(email))
}

func (d *DB) lookupFirst(ctx context.Context, query, arg string) (string, error) {
	var id int
	err := d.db.QueryRowContext(ctx, query, arg).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup customer: %w", err)
	}
	return strconv.Itoa(id), nil
}

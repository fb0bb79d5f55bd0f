package booking

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Имена ограничений из migrations/*
const (
	constraintActiveEmail  = "bookings_active_email_uniq"
	constraintDateCapacity = "bookings_date_capacity"
)

// classifyConstraint переводит нарушение ограничений хранилища в доменную ошибку.
// Возвращает nil, если err не является нарушением известных ограничений.
func classifyConstraint(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case constraintActiveEmail:
			return ErrActiveBookingExists
		case constraintDateCapacity:
			return ErrDateFullyBooked
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, constraintDateCapacity):
		return ErrDateFullyBooked
	case strings.Contains(msg, constraintActiveEmail):
		return ErrActiveBookingExists
	}

	// В SQLite единственный уникальный индекс помимо первичного ключа - по активному email
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return ErrActiveBookingExists
	}

	return nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err is a unique-constraint violation
// from either supported driver. Handlers rely on this to translate a lost
// concurrent insert into an application-level duplicate error instead of
// leaking a raw database error.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	// lib/pq: class 23, unique_violation
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	// modernc.org/sqlite reports constraint failures by message only
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

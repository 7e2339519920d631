// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cpp41419/fns50322-answers/internal/catalog"
)

// PostgreSQL error codes the store translates.
const (
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
)

// classify maps constraint failures onto the catalog error taxonomy and
// wraps everything with op.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, catalog.ErrReferentialViolation, pgErr.Detail)
		case codeCheckViolation, codeNotNullViolation:
			return fmt.Errorf("%s: %w: %s", op, catalog.ErrInvalidArgument, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

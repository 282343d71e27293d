// Package contract exposes read access to loan contracts. The ingestion
// pipeline only resolves contract references; it never mutates a contract.
package contract

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a contract id does not resolve.
var ErrNotFound = errors.New("contract not found")

// Contract is a loan contract a statement can be linked to.
type Contract struct {
	ID         int64
	CompanyID  int64
	Number     string
	Bank       string
	Balance    float64
	AnnualRate float64
	StartDate  time.Time
}

// Repository resolves contract identifiers.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Contract, error)
}

package repository

import "errors"

// ErrShowNotFound indicates the referenced show does not exist.
var ErrShowNotFound = errors.New("show not found")

// ErrSaleNotFound indicates no ledger row exists for a (show, date) pair.
var ErrSaleNotFound = errors.New("daily sale not found")

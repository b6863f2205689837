// Package service implements the bracelet resource lifecycle: the
// energy ledger with lazy decay, wearing-session tracking, merit
// counting and leveling, consecration records with validity checks,
// and trend analysis over the energy history. Services accept narrow
// store interfaces so persistence can be swapped out in tests.
package service

import "errors"

// ErrEmptyBraceletID is returned when an operation is attempted with a
// blank bracelet id. Handlers should translate this into an HTTP 400
// response.
var ErrEmptyBraceletID = errors.New("bracelet id is empty")

// ErrInvalidAmount is returned when a merit addition carries a
// non-positive amount.
var ErrInvalidAmount = errors.New("merit amount must be positive")

// ErrUnknownActivity is returned when an energy change or wearing
// session names an activity outside the fixed set.
var ErrUnknownActivity = errors.New("unknown activity")

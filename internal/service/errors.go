package service

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP status
// codes in one place instead of string-matching messages.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPlanLimitReached   = errors.New("plan limit reached")

	ErrRegisterClosed  = errors.New("cash register is not open")
	ErrSessionConflict = errors.New("cash register already has an open session")
	ErrNoOpenSession   = errors.New("no open session for this cash register")

	// ErrInconsistentState marks a register flagged active with no open
	// session behind it. Recovery goes through an operator-confirmed repair,
	// never an automatic fix.
	ErrInconsistentState = errors.New("cash register state is inconsistent")

	ErrSessionStillOpen = errors.New("session is still open")
	ErrDuplicateImport  = errors.New("session was already imported")

	ErrInsufficientPayment = errors.New("received amount is less than the sale total")
	ErrGatewayDisabled     = errors.New("payment gateway is not configured for this company")
)

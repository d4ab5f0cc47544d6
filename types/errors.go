package types

import "errors"

// Validation errors, the input itself is malformed or out of range.
var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrSizeOutOfBounds = errors.New("quote size out of bounds")
	ErrSpreadTooWide   = errors.New("quote spread exceeds maximum")
)

// Policy errors, the current state disallows the action.
var (
	ErrRegistryClosed          = errors.New("registry is not open for new registrations")
	ErrTradingDisabled         = errors.New("trading is not enabled")
	ErrMarketMakerNotActive    = errors.New("market maker is not active")
	ErrMaxQuotesReached        = errors.New("maximum active quotes reached")
	ErrQuoteNotActive          = errors.New("quote is not active")
	ErrQuoteNotFillable        = errors.New("quote is not fillable")
	ErrQuoteExpired            = errors.New("quote has expired")
	ErrActiveQuotesExist       = errors.New("market maker has active quotes")
	ErrNonZeroInventory        = errors.New("market maker has open inventory")
	ErrInvalidStatusTransition = errors.New("invalid market maker status transition")
)

// Resource errors, recoverable by waiting or depositing more collateral.
var (
	ErrBelowMinimumCollateral          = errors.New("initial collateral below registry minimum")
	ErrInsufficientCollateral          = errors.New("insufficient collateral to back quote")
	ErrInsufficientAvailableCollateral = errors.New("insufficient available collateral")
	ErrFillSizeTooSmall                = errors.New("fill size below quote minimum")
	ErrSlippageExceeded                = errors.New("quote price violates taker price bound")
)

var (
	ErrUnauthorized = errors.New("caller is not the market maker owner")

	// ErrMathOverflow is returned whenever a fixed point operation would
	// wrap. Silent wraparound on collateral or size fields is never
	// acceptable, so every checked operation surfaces this instead.
	ErrMathOverflow = errors.New("math overflow")
)

// Lookup errors.
var (
	ErrRegistryNotFound             = errors.New("registry not found")
	ErrMarketMakerNotFound          = errors.New("market maker not found")
	ErrMarketMakerAlreadyRegistered = errors.New("market maker already registered")
	ErrQuoteNotFound                = errors.New("quote not found")
)

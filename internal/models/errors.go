package models

import (
	"errors"
	"fmt"
)

// ErrNotFound общий корень для ошибок отсутствия записи.
var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrPackageNotFound      = fmt.Errorf("package %w", ErrNotFound)
	ErrSubscriptionNotFound = fmt.Errorf("subscription %w", ErrNotFound)
	ErrProductNotFound      = fmt.Errorf("product %w", ErrNotFound)
	ErrTransactionNotFound  = fmt.Errorf("transaction %w", ErrNotFound)
)

var (
	ErrDuplicateActiveSubscription = errors.New("trainee already has an active subscription")
	ErrPackageInUse                = errors.New("package has active subscriptions")
	ErrHasActiveSubscription       = errors.New("trainee has an active subscription")
	ErrUsernameTaken               = errors.New("username already taken")
	ErrInvalidScope                = errors.New("operation not allowed for this kind of user")
	ErrInsufficientStock           = errors.New("insufficient stock")
	ErrInvalidCredentials          = errors.New("invalid username or password")
	ErrInvalidInput                = errors.New("invalid input")
)

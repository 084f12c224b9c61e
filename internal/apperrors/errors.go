package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientBalance indicates a member's prepaid balance does not cover
// the amount of a requested debit. The balance and the order are left untouched.
var ErrInsufficientBalance = errors.New("member balance not enough")

// ErrUnsupportedStatusTransfer indicates a requested order status transition
// is not in the allowed transition table. The order is left unchanged.
var ErrUnsupportedStatusTransfer = errors.New("unsupported order status transfer")

// ErrPartialCommit indicates a ledger mutation committed but the corresponding
// order write did not (or could not be confirmed rolled back). Money and order
// state may be desynchronized and require manual reconciliation.
var ErrPartialCommit = errors.New("partial commit: ledger and order state may be desynchronized")

// ErrConflict indicates the stored state no longer matches what the operation
// expected (e.g. a concurrent status transition won the race).
var ErrConflict = errors.New("conflicting concurrent update")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the authenticated caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

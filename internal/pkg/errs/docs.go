// Package errs provides standardized error types for the order-management
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// Two groups of errors live here:
//
//   - Generic validation errors (ValueIsRequiredError, ValueIsInvalidError,
//     ObjectNotFoundError) used by value objects and repositories.
//   - The workflow error taxonomy (TransitionDeniedError, ReasonRequiredError,
//     DriverUnavailableError, ReferentialConflictError) produced by the status
//     transition policy, the delivery assignment guard, and the catalog
//     deletion checks. These are decided locally, before any network call,
//     and are always recoverable by the operator.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrTransitionDenied)
//   - A struct type with fields for error details
//   - Constructor functions
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// Persistence failures are deliberately not modeled here: any error coming
// out of the database or the change feed is propagated as-is and mapped to a
// generic failure notice at the HTTP boundary.
package errs

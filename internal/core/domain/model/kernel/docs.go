// Package kernel contains shared value objects used across the domain model:
// the sequential OrderID ("ORD-###"), the UUID wrapper for user and comment
// identities, and the DateOnly calendar date used by availability lists.
//
// All value objects follow the same contract: the zero value is invalid,
// construction goes through validating factory functions, and Validate
// detects instances that bypassed them.
package kernel

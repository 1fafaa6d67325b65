// Package services contains the pure domain services of the order workflow:
// the status transition policy (who may move an order where, and what history
// entry the move carries) and the delivery assignment guard (driver
// availability). Both are side-effect free; persistence and event publishing
// happen in the application layer after a decision is approved.
package services

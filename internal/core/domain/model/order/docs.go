// Package order contains the Order aggregate and its owned entities: order
// lines (Item), the append-only history (LogEntry), comments, and the Status
// pipeline enumeration.
//
// The aggregate records state; it does not decide who may change it. Role
// rules, the missing-driver guard, and the in-flight lock live in the
// transition policy (internal/core/domain/services), which callers must
// consult before invoking ChangeStatus, AssignDelivery, or ApplyEdit.
package order

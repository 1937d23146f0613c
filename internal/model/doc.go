// Package model holds the domain types of the event service: the event
// aggregate with its ordered team registrations, user accounts, and the
// pure calculators that derive capacity, waitlist and per-user status
// from aggregate state. Types here carry no storage or transport
// concerns.
package model

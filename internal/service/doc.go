// Package service holds the business logic of the event service:
// authentication, event lifecycle, the registration state machine and
// the user directory. Repository interfaces are declared here at the
// point of use; every roster mutation runs inside the event
// repository's atomic update so derived joined/waitlist state stays
// consistent under concurrent writers.
package service

// Package repository implements SurrealDB data access for the event
// service. The event aggregate is stored as a single document; all
// mutations to it go through EventRepository.UpdateAtomic, which retries
// on revision conflicts so roster order is never corrupted by
// concurrent writers.
package repository

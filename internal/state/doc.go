// Package state owns the canonical pin collection and the transient UI state
// that hangs off it.
//
// # Components
//
//   - Repository: the ordered, id-unique pin collection. Every mutation
//     (Create, Update, Delete) is written through to a store.Store before
//     the call returns. Create resolves the address first and only then
//     appends, so no caller ever sees a pin without its address.
//   - Selection: at most one selected pin id. It listens to the repository
//     and clears itself when the selected pin is deleted.
//   - Drafts: the single unsaved pin candidate created by a map click,
//     with the states Empty and Editing.
//
// # Data Flow
//
//	map click ──> Drafts.Place ──> (edit remarks) ──> Drafts.Confirm
//	                                                      │
//	                                                      ▼
//	              geocode.Resolver <── Repository.Create ──> store.Save
//	                                          │
//	                                          ▼ Event
//	                              Selection / UI observers
//
// # Concurrency
//
// Views drive these types from a single event loop. Address resolution may
// run on another goroutine (a bubbletea command), so all three types guard
// their state with a mutex. Observers are notified after the lock is
// released, which lets them call back into the repository.
//
// # Persistence Failures
//
// A failed Save never fails the mutation. The in-memory collection stays
// the source of truth for the session; the error is logged and exposed via
// Snapshot until the next successful save.
package state

// Package store holds auxiliary payloads attached to a single invocation of
// a published event.
//
// # Overview
//
// Every invocation owns at most one Bag. A bag maps a Key (payload type plus
// tag) to a value and carries a Lifetime that decides when the bag goes away:
//
//   - DeleteAfterUse: the first successful Read destroys the whole bag
//   - DeleteByCommand: the bag lives until Remove is called
//   - DoNotDelete: Remove never succeeds; only Clear drops the bag
//
// Bags are created lazily by Stage and never by Read or Amend.
//
// # Typed Access
//
// The Store itself is type-erased. Use the generic helpers for keyed access
// by a static Go type:
//
//	s := store.New()
//	_ = store.StageValue(s, id, "health", 100, store.DeleteByCommand)
//	hp, ok := store.ReadValue[int](s, id, "health") // 100, true
//
// # Collisions
//
// Staging a key that is already present returns a *DuplicateEntryError and
// leaves the store untouched. Amend overwrites instead.
package store

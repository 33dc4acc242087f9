// Package store persists the whole pin collection as a single blob.
//
// A Store is a key-value slot named "pins" holding a JSON array of
// {id, lat, lng, address, remarks} records. Two backends exist:
//
//   - FileStore: a JSON file replaced via write-to-temp + rename
//   - BoltStore: one key in a bbolt bucket, replaced inside one transaction
//
// Both give the same contract. Load never fails: a missing slot, an
// unreadable slot and a corrupt blob all read as an empty collection.
// Save always overwrites the whole slot and a failed Save leaves the
// previous blob intact, so Load never observes a partial write.
package store

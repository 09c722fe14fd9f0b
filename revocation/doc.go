// Package revocation tracks tokens that must be treated as invalid before
// their natural expiry, bounded in size by a periodic sweep.
//
// A token moves through Issued → Active → {Expired | Revoked} → Purged.
// Revoked and Expired are not mutually exclusive observation states; Purged
// is reached only via [Store.Sweep] and is terminal.
//
// # Backends
//
// [MemoryStore] keeps both maps in process memory behind one reader/writer
// lock, which means a revocation is visible only within the process that
// recorded it. [RedisStore] preserves the exact external contract on a
// shared Redis, for deployments running more than one host instance.
//
// # What this package must NOT do
//
//   - Verify signatures or expiry of the tokens themselves.
//   - Let Sweep remove a live entry, or leave an index member pointing at a
//     deleted entry.
package revocation

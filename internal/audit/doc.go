// Package audit is the internal event model and asynchronous dispatch for
// token lifecycle auditing.
//
// # Architecture boundaries
//
// This package owns the Event shape, the Sink contract, and the background
// dispatcher. The root package re-exports the public aliases; the engine is
// the only emitter.
//
// # What this package must NOT do
//
//   - Block the request path on a slow sink.
//   - Carry plaintext tokens or password material in events.
//   - Import the root package or any sibling.
package audit

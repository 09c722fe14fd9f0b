// Package middleware provides thin net/http adapters over the engine for
// hosts that want drop-in guards. The routing layer itself stays external;
// these helpers only translate engine results into 401/403 responses and a
// context-carried identity.
package middleware

// Package moduleid provides canonical module coordinates and the session-wide
// interning registry that deduplicates them.
//
// Every dependency declaration, exclude rule and resolution result refers to
// a module by its (group, name) pair. Interning these pairs into a single
// shared *ModuleID per distinct coordinate lets the rest of the engine
// compare identifiers by pointer and keeps the resolution session's memory
// proportional to the number of distinct coordinates actually seen.
//
// The registry is created once per resolution session and never evicts: a
// *ModuleID handed out stays valid for the lifetime of the session. Growth is
// bounded by the size of the dependency universe a build touches, which makes
// the absence of eviction acceptable.
//
// # Thread-Safety
//
// Module is safe for concurrent use by parallel resolver workers. The lookup
// uses an atomic get-or-insert (sync.Map LoadOrStore) at both levels, so two
// racing callers asking for the same coordinate always observe the same
// canonical pointer. A transiently constructed duplicate that loses the race
// is discarded before anyone can see it.
package moduleid

// Package session keeps Klondike game sessions in memory and in storage.
//
// Manager maps session IDs to sessions. Lookups are case-insensitive, and
// a session missing from memory is loaded from the configured
// SessionPersistence on first use. IDs are 4 hex characters by default;
// SetIDGenerator(UUIDSessionID) switches to UUIDs.
//
// Storage backends:
//
//   - FilePersistence writes one JSON document per session to a directory
//   - RedisPersistence stores the same document under klondike:session:<id>
//   - PostgresPersistence keeps it in a JSONB column of klondike_sessions
//
// Every backend stores the live layout together with the undo and redo
// snapshots, the move counter, the status and the move log, so a reloaded
// session can still undo moves made before the restart. Loading validates
// each stored layout and rejects documents that do not hold one full deck.
//
// Locking:
//
// The manager's own lock guards the session map only. Play on a session is
// serialized by the session's lock, and Save expects its caller to hold
// that lock. SaveAllSessions takes each session's lock itself.
//
// Usage:
//
//	store, err := session.NewFilePersistence(dir, configs)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(store)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Fatal(err)
//	}
package session

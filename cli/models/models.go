package models

import "time"

// Snapshot is one poll of the counter and, when configured, the ledger.
type Snapshot struct {
	Key          string
	Value        uint64
	Missing      bool
	ScriptLoaded bool
	HasLedger    bool
	Ledger       uint64
	At           time.Time
	Err          error
}

type SnapshotMsg Snapshot

package metadata

// --- SQLite Keys ---
// These keys are used for the 'key' column in the 'metadata' SQLite table.
const (
	// LastDailyResetKey stores the time (RFC3339) of the last successful
	// daily login flag reset. It lets the scheduler detect a missed
	// midnight run after a restart and catch up immediately.
	LastDailyResetKey = "last_daily_reset"
)

package listings

import "time"

// Config holds the tuning knobs of the listing engine.
type Config struct {
	// BatchSize is the maximum number of creates submitted in one call.
	// Reaching it triggers an immediate flush.
	BatchSize int `mapstructure:"batch_size" default:"100"`
	// WaitTime is the debounce quiet period before a flush.
	WaitTime time.Duration `mapstructure:"wait_time" default:"1s"`
	// HeartbeatInterval is how often listings are bumped and refetched.
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval" default:"5m"`
	// InventoryInterval is how often the marketplace inventory is refreshed.
	InventoryInterval time.Duration `mapstructure:"inventory_interval" default:"3m"`
	// InventoryCooldown is the minimum time between inventory refreshes.
	InventoryCooldown time.Duration `mapstructure:"inventory_cooldown" default:"2m"`
	// FlushAttempts caps transport-level retries of a flush.
	FlushAttempts int `mapstructure:"flush_attempts" default:"3"`
	// FlushBackoff is the base delay between flush attempts, doubled each time.
	FlushBackoff time.Duration `mapstructure:"flush_backoff" default:"2s"`
	// RelistWindow is how recent a live listing must be for a forced create
	// to remove it first.
	RelistWindow time.Duration `mapstructure:"relist_window" default:"30m"`
	// MaxRemoveFailures drops a remove after this many failed runs.
	MaxRemoveFailures int `mapstructure:"max_remove_failures" default:"3"`
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.WaitTime <= 0 {
		c.WaitTime = time.Second
	}
	if c.FlushAttempts <= 0 {
		c.FlushAttempts = 3
	}
	if c.FlushBackoff < 0 {
		c.FlushBackoff = 0
	}
	if c.MaxRemoveFailures <= 0 {
		c.MaxRemoveFailures = 3
	}
	return c
}

package runway

import "time"

// Config holds configuration for the Wizard.
type Config struct {
	// SyncTimeout bounds each remote save or load call, including the
	// background sync fired by NextStage.
	SyncTimeout time.Duration

	// PublishTimeout bounds the publish call to the event-creation
	// collaborator.
	PublishTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SyncTimeout:    10 * time.Second,
		PublishTimeout: 30 * time.Second,
	}
}

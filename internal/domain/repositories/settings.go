package repositories

import "context"

// SettingsRepository reads and writes singleton configuration records.
type SettingsRepository interface {
	// GetRetentionDays returns the trash retention window, or the given
	// default if no record exists yet
	GetRetentionDays(ctx context.Context, defaultDays int) (int, error)

	// SetRetentionDays persists the trash retention window
	SetRetentionDays(ctx context.Context, days int) error
}

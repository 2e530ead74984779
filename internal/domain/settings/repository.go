package settings

import "context"

// SettingsRepository - interface for the singleton settings row
type SettingsRepository interface {
	Get(ctx context.Context) (Settings, error)
	Create(ctx context.Context, s Settings) (Settings, error)
	Update(ctx context.Context, s Settings) (Settings, error)
}

package model

// SettingsProvider returns the settings currently in effect.
type SettingsProvider interface {
	Settings() Settings
}

// ConfigProvider provides the process configuration.
type ConfigProvider interface {
	GetConfig() *Config
}

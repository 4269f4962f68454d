package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/cloudcast/internal/constants"
)

// Settings are the operator preferences persisted between sessions.
type Settings struct {
	AutoRefresh bool `json:"auto_refresh"`
	AutoFocus   bool `json:"auto_focus"`
}

// DefaultSettings returns the preferences used on a fresh store.
func DefaultSettings() Settings {
	return Settings{
		AutoRefresh: constants.DefaultAutoRefresh,
		AutoFocus:   constants.DefaultAutoFocus,
	}
}

// MapToSettings converts stored key/value rows to Settings. Unknown keys are ignored.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()
	for key, value := range data {
		switch key {
		case constants.SettingAutoRefresh:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.AutoRefresh = b
		case constants.SettingAutoFocus:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
			settings.AutoFocus = b
		}
	}
	return settings, nil
}

// SettingsToMap converts Settings to key/value rows.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingAutoRefresh: strconv.FormatBool(settings.AutoRefresh),
		constants.SettingAutoFocus:   strconv.FormatBool(settings.AutoFocus),
	}
}

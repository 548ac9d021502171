package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Top-level keys of the shared settings file. Everything else is front-end state kept in Extra.
const (
	SettingsKeySchemaVersion    = "schemaVersion"
	SettingsKeyCustomSaveFolder = "customSaveFolder"
	SettingsKeyTheme            = "ispeakerreact-ui-theme"
	SettingsKeyLogSettings      = "logSettings"
	SettingsKeyGeneratedAt      = "generatedAt"
)

// MarshalJSON writes the flat Electron layout: Extra keys sit next to the known keys at the
// top level. Known keys win over an Extra entry of the same name.
func (s SettingsState) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(s.Extra)+5)
	for k, v := range s.Extra {
		flat[k] = v
	}
	setOrDrop(flat, SettingsKeySchemaVersion, s.SchemaVersion)
	setOrDrop(flat, SettingsKeyCustomSaveFolder, s.CustomSaveFolder)
	setOrDrop(flat, SettingsKeyTheme, s.Theme)
	flat[SettingsKeyLogSettings] = s.LogSettings
	if s.GeneratedAt.IsZero() {
		delete(flat, SettingsKeyGeneratedAt)
	} else {
		flat[SettingsKeyGeneratedAt] = s.GeneratedAt
	}
	return json.Marshal(flat)
}

func setOrDrop(flat map[string]interface{}, key, value string) {
	if value == "" {
		delete(flat, key)
		return
	}
	flat[key] = value
}

// UnmarshalJSON reads the flat layout. logSettings is merged into the receiver's current
// LogSettings, so callers pre-fill defaults for keys the file omits. Known keys with the
// wrong type are ignored, matching the front end's typeof checks.
func (s *SettingsState) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	for key, raw := range flat {
		switch key {
		case SettingsKeySchemaVersion:
			var v string
			if json.Unmarshal(raw, &v) == nil {
				s.SchemaVersion = v
			}
		case SettingsKeyCustomSaveFolder:
			var v string
			if json.Unmarshal(raw, &v) == nil {
				s.CustomSaveFolder = strings.TrimSpace(v)
			}
		case SettingsKeyTheme:
			var v string
			if json.Unmarshal(raw, &v) == nil {
				s.Theme = v
			}
		case SettingsKeyLogSettings:
			var patch LogSettingsPatch
			if err := json.Unmarshal(raw, &patch); err != nil {
				return fmt.Errorf("logSettings: %w", err)
			}
			s.LogSettings = s.LogSettings.Apply(patch)
		case SettingsKeyGeneratedAt:
			var v time.Time
			if json.Unmarshal(raw, &v) == nil {
				s.GeneratedAt = v
			}
		default:
			var v interface{}
			if json.Unmarshal(raw, &v) != nil {
				continue
			}
			if s.Extra == nil {
				s.Extra = make(map[string]interface{})
			}
			s.Extra[key] = v
		}
	}
	return nil
}

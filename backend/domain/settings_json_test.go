package domain

import (
	"encoding/json"
	"testing"
)

func TestSettingsState_MarshalJSON_KeepsFlatElectronLayout(t *testing.T) {
	t.Parallel()

	state := SettingsState{
		SchemaVersion:    "1.0.0",
		CustomSaveFolder: "/media/usb/speak",
		Theme:            "dark",
		LogSettings:      DefaultLogSettings(),
		Extra: map[string]interface{}{
			"windowBounds":     map[string]interface{}{"width": 1200.0},
			"customSaveFolder": "/stale",
		},
	}
	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var flat map[string]interface{}
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if flat["ispeakerreact-ui-theme"] != "dark" {
		t.Fatalf("expected theme under the electron key, got %v", flat)
	}
	if flat["customSaveFolder"] != "/media/usb/speak" {
		t.Fatalf("expected known key to win over extra, got %v", flat["customSaveFolder"])
	}
	if _, ok := flat["windowBounds"].(map[string]interface{}); !ok {
		t.Fatalf("expected front-end key at top level, got %v", flat)
	}
	for _, nested := range []string{"extra", "theme"} {
		if _, ok := flat[nested]; ok {
			t.Fatalf("unexpected key %q in %v", nested, flat)
		}
	}
	if _, ok := flat["generatedAt"]; ok {
		t.Fatalf("zero generatedAt should be omitted")
	}
}

func TestSettingsState_MarshalJSON_OmitsUnsetFolder(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(SettingsState{LogSettings: DefaultLogSettings()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var flat map[string]interface{}
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := flat["customSaveFolder"]; ok {
		t.Fatalf("customSaveFolder must be absent when unset: %v", flat)
	}
}

func TestSettingsState_RoundTrip(t *testing.T) {
	t.Parallel()

	in := []byte(`{"customSaveFolder":" /srv/speak ","ispeakerreact-ui-theme":"light","logSettings":{"numOfLogs":2},"ispeakerreact-language":"en"}`)
	state := SettingsState{LogSettings: DefaultLogSettings()}
	if err := json.Unmarshal(in, &state); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if state.CustomSaveFolder != "/srv/speak" || state.Theme != "light" {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.LogSettings.NumOfLogs != 2 || state.LogSettings.LogLevel != "info" {
		t.Fatalf("expected logSettings merged over defaults, got %+v", state.LogSettings)
	}

	out, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again SettingsState
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("unmarshal again: %v", err)
	}
	if again.Extra["ispeakerreact-language"] != "en" || again.Theme != "light" {
		t.Fatalf("round trip lost keys: %+v", again)
	}
}

func TestSettingsState_UnmarshalJSON_BadLogSettings(t *testing.T) {
	t.Parallel()

	var state SettingsState
	if err := json.Unmarshal([]byte(`{"logSettings":"loud"}`), &state); err == nil {
		t.Fatalf("expected error for malformed logSettings")
	}
}

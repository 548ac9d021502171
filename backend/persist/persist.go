package persist

// SettingsFileName mirrors the Electron store name so both sides share one file.
const SettingsFileName = "ispeakerreact_config.json"

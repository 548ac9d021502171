package events

import "ispeaker/backend/domain"

// EventType 事件类型
type EventType string

const (
	// 保存目录迁移事件（与前端监听的频道名一致）
	EventFolderMoveProgress EventType = "move-folder-progress"
	EventVenvDeleteStatus   EventType = "venv-delete-status"

	// 设置事件
	EventSaveFolderChanged  EventType = "settings.save_folder_changed"
	EventLogSettingsChanged EventType = "settings.log_settings_changed"
	EventThemeChanged       EventType = "settings.theme_changed"

	// 通配符事件（用于订阅所有事件）
	EventAll EventType = "*"
)

// Event 事件接口
type Event interface {
	Type() EventType
}

// MoveProgressEvent 迁移进度事件
type MoveProgressEvent struct {
	OperationID string
	Progress    domain.ProgressEvent
}

func (e MoveProgressEvent) Type() EventType { return EventFolderMoveProgress }

// VenvStatusEvent venv 删除状态事件
type VenvStatusEvent struct {
	OperationID string
	Status      domain.VenvStatusEvent
}

func (e VenvStatusEvent) Type() EventType { return EventVenvDeleteStatus }

// SettingsEvent 设置事件
type SettingsEvent struct {
	EventType EventType
}

func (e SettingsEvent) Type() EventType { return e.EventType }

// IsSettings reports whether t is a persisted-settings mutation.
func IsSettings(t EventType) bool {
	switch t {
	case EventSaveFolderChanged, EventLogSettingsChanged, EventThemeChanged:
		return true
	default:
		return false
	}
}

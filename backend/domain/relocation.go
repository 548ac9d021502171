package domain

// MovePhase 迁移进度所处阶段
type MovePhase string

const (
	PhaseCopy       MovePhase = "copy"
	PhaseDelete     MovePhase = "delete"
	PhaseDeleteDir  MovePhase = "delete-dir"
	PhaseDeleteDone MovePhase = "delete-done"
)

// ProgressEvent is pushed on the move-folder-progress channel.
//
// Moved is a running 1-based count within the phase. For PhaseDeleteDir, Total is the
// directory count rather than the file count. Name is nil only on the delete-done sentinel.
type ProgressEvent struct {
	Moved int       `json:"moved"`
	Total int       `json:"total"`
	Phase MovePhase `json:"phase"`
	Name  *string   `json:"name"`
}

// VenvStatus venv 预清理状态
type VenvStatus string

const (
	VenvDeleting VenvStatus = "deleting"
	VenvDeleted  VenvStatus = "deleted"
	VenvError    VenvStatus = "error"
)

// VenvStatusEvent is pushed on the venv-delete-status channel.
type VenvStatusEvent struct {
	Status VenvStatus `json:"status"`
	Path   string     `json:"path"`
	Error  string     `json:"error,omitempty"`
}

// RelocationErrorKind 保存目录变更失败类型
type RelocationErrorKind string

const (
	// ErrFolderChange covers validation and setup failures; nothing has been touched.
	ErrFolderChange RelocationErrorKind = "folderChangeError"
	// ErrFolderMove covers failures while transferring data between roots.
	ErrFolderMove RelocationErrorKind = "folderMoveError"
)

// Reasons are i18n keys resolved by the front end.
const (
	ReasonFolderNotDir       = "toast.folderNotDir"
	ReasonFolderRestricted   = "toast.folderRestricted"
	ReasonFolderNoWrite      = "toast.folderNoWrite"
	ReasonFolderMoveInFlight = "toast.folderMoveInProgress"
)

// RelocationResult is returned once per set-custom-save-folder request.
type RelocationResult struct {
	Success bool                `json:"success"`
	NewPath string              `json:"newPath,omitempty"`
	Error   RelocationErrorKind `json:"error,omitempty"`
	Reason  string              `json:"reason,omitempty"`
}

func RelocationOK(newPath string) RelocationResult {
	return RelocationResult{Success: true, NewPath: newPath}
}

func RelocationFailed(kind RelocationErrorKind, reason string) RelocationResult {
	return RelocationResult{Success: false, Error: kind, Reason: reason}
}

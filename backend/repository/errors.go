package repository

import "errors"

// 通用仓储错误
var (
	// ErrNotFound 实体不存在
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidData 数据无效
	ErrInvalidData = errors.New("invalid entity data")
)

// 设置相关错误
var (
	ErrEmptySaveFolder = errors.New("custom save folder must not be empty")
	ErrRelativeFolder  = errors.New("custom save folder must be an absolute path")
	ErrInvalidTheme    = errors.New("invalid theme")
)

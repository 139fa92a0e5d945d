package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrTestNotFound        = errors.New("test not found")
	ErrTestNotJoinable     = errors.New("test join window closed")
	ErrTestNotAvailable    = errors.New("test not available")
	ErrQuestionNotFound    = errors.New("question not found in test")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrTechnologyNotFound  = errors.New("technology not found")
	ErrDuplicateAnswer     = errors.New("question already answered")
	ErrSubmissionFinalized = errors.New("submission already finalized")
	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrMalformedAnswer     = errors.New("malformed answer for question type")
	ErrWriteConflict       = errors.New("concurrent write conflict, please retry")
	ErrUnsupportedFile     = errors.New("不支持的文件类型")
)

package support

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput 空消息或非法输入，在边界层拒绝
	ErrInvalidInput = errors.New("invalid input")
	// ErrCollaboratorTimeout 外部协作方调用超时
	ErrCollaboratorTimeout = errors.New("collaborator timeout")
	// ErrCollaboratorUnavailable 外部协作方调用失败
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrMalformedOutput 生成式模型返回了无法解析的结构化数据
	ErrMalformedOutput = errors.New("malformed collaborator output")
	// ErrInvalidScore 情绪分数超出 [0,1]
	ErrInvalidScore = errors.New("invalid score")
	// ErrLoggingFailure 交互记录写入失败
	ErrLoggingFailure = errors.New("logging failure")
)

// InvalidScoreError 情绪分数越界错误
type InvalidScoreError struct {
	Score float64
}

// Error 返回错误描述
func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("anger level %v outside [0,1]", e.Score)
}

// Unwrap 支持 errors.Is(err, ErrInvalidScore)
func (e *InvalidScoreError) Unwrap() error {
	return ErrInvalidScore
}

// CollaboratorError 外部协作方（检索、生成、日志）调用错误
type CollaboratorError struct {
	// Collaborator 协作方名称，如 retriever、generator
	Collaborator string
	// Op 操作名称
	Op string
	// Err 原始错误
	Err error
}

// NewCollaboratorError 包装协作方错误
func NewCollaboratorError(collaborator, op string, err error) *CollaboratorError {
	return &CollaboratorError{Collaborator: collaborator, Op: op, Err: err}
}

// Error 返回错误描述
func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Collaborator, e.Op, e.Err)
}

// Unwrap 返回原始错误
func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Is 超时归类为 ErrCollaboratorTimeout，其余归类为 ErrCollaboratorUnavailable
func (e *CollaboratorError) Is(target error) bool {
	switch target {
	case ErrCollaboratorTimeout:
		return e.IsTimeout()
	case ErrCollaboratorUnavailable:
		return !e.IsTimeout()
	}
	return false
}

// IsTimeout 是否为超时
func (e *CollaboratorError) IsTimeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// InputError 边界层输入校验错误
type InputError struct {
	Field  string
	Reason string
}

// Error 返回错误描述
func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap 支持 errors.Is(err, ErrInvalidInput)
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

package apperr

import (
	"errors"
	"fmt"
)

// AuthError: session yo'q yoki backend tokenni rad etdi.
// Triggers the global session-expiry flow.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "未登录，请先登录"
	}
	return e.Message
}

// ValidationError local precondition failed; no remote call was issued.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RemoteError backend non-success javobi
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error (%d): %s", e.StatusCode, e.Message)
}

// TransportError tarmoq/timeout xatosi
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HostError grid (host) operatsiyasi xatosi
type HostError struct {
	Op  string
	Err error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host error in %s: %v", e.Op, e.Err)
}

func (e *HostError) Unwrap() error { return e.Err }

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// UserMessage turns any error into a transient user-facing notice.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ae *AuthError
	if errors.As(err, &ae) {
		return "登录已过期，请重新登录"
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	var re *RemoteError
	if errors.As(err, &re) {
		switch re.StatusCode {
		case 400:
			return "请求参数错误"
		case 401:
			return "未授权，请重新登录"
		case 403:
			return "您没有权限执行此操作"
		case 404:
			return "请求的资源不存在"
		case 500:
			return "服务器内部错误"
		default:
			if re.Message != "" {
				return re.Message
			}
			return fmt.Sprintf("服务器响应错误(%d)", re.StatusCode)
		}
	}

	var te *TransportError
	if errors.As(err, &te) {
		return "无法连接到服务器，请检查网络"
	}

	return "发生错误，请重试"
}

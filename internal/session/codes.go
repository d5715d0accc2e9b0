package session

import (
	"errors"
	"net/http"
)

// Code classifies an auth failure. Clients show Message(code); provider error text
// is never inspected.
type Code string

const (
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeEmailTaken         Code = "email_taken"
	CodeWeakPassword       Code = "weak_password"
	CodeInvalidEmail       Code = "invalid_email"
	CodeTokenMissing       Code = "token_missing"
	CodeTokenExpired       Code = "token_expired"
	CodeTokenInvalid       Code = "token_invalid"
	CodeTokenRevoked       Code = "token_revoked"
	CodeOAuthFailed        Code = "oauth_failed"
	CodeAccountUsesGoogle  Code = "account_uses_google"
	CodeForbidden          Code = "forbidden"
	CodeUnknown            Code = "unknown"
)

var messages = map[Code]string{
	CodeInvalidCredentials: "이메일 또는 비밀번호가 올바르지 않습니다.",
	CodeEmailTaken:         "이미 가입된 이메일입니다.",
	CodeWeakPassword:       "비밀번호는 8자 이상이며 영문과 숫자를 모두 포함해야 합니다.",
	CodeInvalidEmail:       "올바른 이메일 형식이 아닙니다.",
	CodeTokenMissing:       "로그인이 필요합니다.",
	CodeTokenExpired:       "로그인이 만료되었습니다. 다시 로그인해 주세요.",
	CodeTokenInvalid:       "인증 정보가 올바르지 않습니다. 다시 로그인해 주세요.",
	CodeTokenRevoked:       "로그아웃된 세션입니다. 다시 로그인해 주세요.",
	CodeOAuthFailed:        "소셜 로그인에 실패했습니다. 잠시 후 다시 시도해 주세요.",
	CodeAccountUsesGoogle:  "Google 로그인으로 가입된 계정입니다. Google로 로그인해 주세요.",
	CodeForbidden:          "접근 권한이 없습니다.",
	CodeUnknown:            "인증 처리 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요.",
}

// Message returns the user-facing Korean message for code.
func Message(c Code) string {
	if m, ok := messages[c]; ok {
		return m
	}
	return messages[CodeUnknown]
}

// HTTPStatus maps a code to its response status.
func HTTPStatus(c Code) int {
	switch c {
	case CodeEmailTaken:
		return http.StatusConflict
	case CodeWeakPassword, CodeInvalidEmail, CodeAccountUsesGoogle:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeOAuthFailed:
		return http.StatusBadGateway
	case CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusUnauthorized
	}
}

// Error is an auth failure carrying its Code.
type Error struct {
	Code  Code
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return string(e.Code) + ": " + e.Cause.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

func Fail(code Code, cause error) *Error { return &Error{Code: code, Cause: cause} }

// CodeOf extracts the code from err, or CodeUnknown.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeUnknown
}

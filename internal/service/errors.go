package service

import "errors"

// 业务错误：handler 层统一映射到 HTTP 错误码
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email not verified")
	ErrNotActive          = errors.New("account not approved")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrChannelNotFound    = errors.New("channel not found")
	ErrNotifNotFound      = errors.New("notification not found")
	ErrAlreadyApproved    = errors.New("user already approved")
	ErrDenyOwner          = errors.New("cannot deny an owner")
	ErrSelfPromotion      = errors.New("cannot promote yourself")
	ErrTargetIsOwner      = errors.New("target user is already owner")
	ErrInvalidRole        = errors.New("invalid role")
	ErrForbidden          = errors.New("forbidden")
	ErrBadAssignee        = errors.New("assignee not available")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrSelfDependency     = errors.New("task cannot block itself")
	ErrBadMessage         = errors.New("message needs exactly one of channel or recipient")
)

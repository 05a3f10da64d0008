package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrUserInactive        = errors.New("user is inactive")
	ErrForbidden           = errors.New("access forbidden")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrNotFound            = errors.New("resource not found")
	ErrSessionExpired      = errors.New("session expired")
	ErrMissingUser         = errors.New("missing user profile")
)

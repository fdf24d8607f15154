package util

import "errors"

var (
	ErrPersonNotFound     = errors.New("person not found")
	ErrPersonExists       = errors.New("uid or email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication required")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrNoActiveGame   = errors.New("no active game found")
	ErrInvalidBet     = errors.New("bet amount must be positive")
	ErrDeckEmpty      = errors.New("deck is empty")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrOutOfRange     = errors.New("value out of range")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNothingToApply = errors.New("no fields to update")

	ErrResetBlocked   = errors.New("reset code cannot be issued right now")
	ErrResetForbidden = errors.New("password reset is not allowed for this account")

	ErrGeminiNotConfigured = errors.New("gemini api key is not configured")
	ErrGeminiQuota         = errors.New("Gemini quota exceeded")
	ErrGitHubUserNotFound  = errors.New("GitHub user not found")
	ErrGitHubRateLimited   = errors.New("GitHub API rate limit exceeded, try again later")
)

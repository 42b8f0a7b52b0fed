package domain

import "errors"

var (
	// ErrNotAuthenticated is returned when no identity is attached to a request.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCredentials is returned when the password check fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when registration hits an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUserNotFound is returned when a referenced user record is absent.
	ErrUserNotFound = errors.New("user not found")
	// ErrActivityNotFound indicates an unknown activity or lesson id.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadyAnswered rejects a second submission for the same question.
	ErrAlreadyAnswered = errors.New("answer already submitted")
	// ErrNotAcceptingAnswers rejects submissions outside the question phase.
	ErrNotAcceptingAnswers = errors.New("session is not accepting answers")
	// ErrSessionFinished rejects input to a completed session.
	ErrSessionFinished = errors.New("quiz session already finished")
)

package services

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionFinished    = errors.New("session already finished")
	ErrSessionNotFinished = errors.New("session not finished yet")
	ErrAnswerOutOfRange   = errors.New("answer index out of range")
	ErrUnknownMock        = errors.New("unknown mock test")
	ErrEmptyContent       = errors.New("no content to import")
	ErrInvalidImage       = errors.New("image is not valid base64")
)

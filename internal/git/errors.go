package git

import "errors"

var (
	ErrUnknownAuthType = errors.New("unknown auth type")
)

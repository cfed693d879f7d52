package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrRunNotFound   = goerr.New("analysis run not found")
	ErrUnknownColumn = goerr.New("unknown categorical column")
)

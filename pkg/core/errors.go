// pkg/core/errors.go
package core

import "errors"

// ErrEventNotFound is returned by event stores for unknown ids.
var ErrEventNotFound = errors.New("event not found")

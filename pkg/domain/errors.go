package domain

import "errors"

// ErrDuplicatePlugin is returned when two plugins in one run share a name.
var ErrDuplicatePlugin = errors.New("duplicate plugin name")

// ErrNilInit is returned when a declaration has no Init function.
var ErrNilInit = errors.New("plugin has no init function")

// ErrPluginNotFound is returned when a plugin name cannot be resolved.
var ErrPluginNotFound = errors.New("plugin not found")

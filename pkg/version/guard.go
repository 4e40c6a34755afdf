// Package version gates plugins on the host API version they were written against.
package version

import "fmt"

// Host is the plugin API version implemented by this build of graft.
const Host = 7

// IncompatiblePluginError reports a plugin that needs a newer host API.
type IncompatiblePluginError struct {
	Plugin   string
	Required int
	Host     int
}

func (e *IncompatiblePluginError) Error() string {
	if e.Plugin == "" {
		return fmt.Sprintf("requires host api version %d, but was loaded with version %d", e.Required, e.Host)
	}
	return fmt.Sprintf("plugin %q requires host api version %d, but was loaded with version %d", e.Plugin, e.Required, e.Host)
}

// AssertVersion fails when host is older than required.
// A required version of zero or less accepts any host.
func AssertVersion(required, host int) error {
	if required <= 0 || host >= required {
		return nil
	}
	return &IncompatiblePluginError{Required: required, Host: host}
}

// AssertPlugin is AssertVersion with the plugin name recorded in the error.
func AssertPlugin(plugin string, required, host int) error {
	if err := AssertVersion(required, host); err != nil {
		err.(*IncompatiblePluginError).Plugin = plugin
		return err
	}
	return nil
}

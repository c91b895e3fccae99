package adapters

import "github.com/alertdash/alertdash/internal/alerts"

// DefaultRegistry returns a registry with all built-in adapters registered
func DefaultRegistry() *alerts.Registry {
	r := alerts.NewRegistry()
	r.Register(NewAlertmanagerAdapter())
	r.Register(NewDatadogAdapter())
	r.Register(NewGenericAdapter())
	return r
}

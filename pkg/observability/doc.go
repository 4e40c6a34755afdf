/*
Package observability turns pipeline lifecycle events into Prometheus metrics
and structured log lines.

Both are plain domain.LifecycleHooks values and can be combined with Merge:

	m := observability.NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks().Merge(observability.LogHooks(logger))
	eng := graft.New(graft.WithLifecycleHooks(hooks))
*/
package observability

/*
Package domain contains the plugin model shared by the graft pipeline and its adapters.

It defines what a plugin author provides and what the host hands back, and is
kept free of I/O so that every adapter (CLI, HTTP, tests) sees the same contract.

# Key Entities

  - PluginDeclaration: a named, versioned plugin with an options schema and an Init function.
  - PluginDefinition: what Init returns; parser option mutations plus visitors.
  - API: the capability handle given to Init (host version and AssertVersion).
  - LifecycleHooks: observability callbacks fired by the pipeline.
*/
package domain

/*
Package ports defines the driven ports (interfaces) of the graft server.

These interfaces decouple request handling from external implementations, so
transform results can be cached in-process or in a shared store.

# Key Interfaces

  - ResultCache: stores encoded transform results by request digest.
*/
package ports

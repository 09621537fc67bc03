/*
Package ports defines the driven ports (interfaces) for the lazyfetch cache.

These interfaces decouple the cache from the network and from any audit sink,
allowing it to run against a real HTTP client, a test double, or a recording
transport.

# Key Interfaces

  - Transport: issues one HTTP request and returns its response.
  - Journal: records lifecycle events of a cache for later inspection.
*/
package ports

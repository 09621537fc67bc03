/*
Package observability provides tools for monitoring lazy fetch caches.

It includes Prometheus metrics, structured-log hooks, and a journal recorder
that stores every advance and interrupt of a cache as an audit trail. All of
them are expressed as domain.LifecycleHooks and can be combined with Compose.
*/
package observability

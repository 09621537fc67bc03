/*
Package domain contains the core data model of the lazyfetch cache.

It defines the record that states populate while a resource is resolved, the
read-only view handed to interrupt conditions, the error taxonomy, and the
lifecycle events emitted as the cache advances. This package is kept free of
I/O beyond duplicating the original request.

# Key Entities

  - Resource: the original request plus every response attribute discovered so far.
  - View: a read-only window onto a Resource.
  - Snapshot: a detached copy of what is known, suitable for JSON.
  - AdvanceError: a classified, fatal failure of one state advance.
*/
package domain

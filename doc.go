/*
Package lazyfetch is a lazy, single-resource HTTP response cache driven by a statically checked state machine.

A Cache wraps one prepared *http.Request and answers questions about its response (protocol version, status code, headers, content type, content length, body) while doing as little network work as possible.

# Resolution

Resolution walks a fixed graph of two states:

  - probe: sends a metadata-only copy of the request (HEAD by default, body stripped) and records version, status, headers, content type and content length.
  - full_fetch: sends an exact copy of the original request and records the body as well. This is the terminal state.

An accessor that finds its attribute already known returns at once. Otherwise the cache advances one state and looks again. After every advance the registered interrupt conditions are evaluated in order; the first one that holds locks the cache. A locked cache never sends another request and every accessor keeps returning the same answer.

Accessors may therefore perform network I/O. They take a context.Context that bounds the round trip.

# Usage

	req, _ := http.NewRequest(http.MethodGet, "https://example.com/report.pdf", nil)

	c, err := lazyfetch.New(req)
	if err != nil {
		log.Fatal(err)
	}
	c.AddInterruptCondition(lazyfetch.StatusNotSuccess())
	c.AddInterruptCondition(lazyfetch.ContentTypeIs("application/pdf"))

	// Sends HEAD only.
	ct, _, err := c.ContentType(ctx)

	// Sends GET only if no condition locked the cache.
	body, ok, err := c.Body(ctx)

# Errors

A failing advance locks the cache and is returned by the accessor that triggered it and, from then on, by every accessor and by Err. Failures are classified with errors.Is against domain.ErrTransport, domain.ErrMalformedMetadata and domain.ErrNonReproducibleRequest.

# Concurrency

A Cache is not safe for concurrent use. Hooks run synchronously on the caller's goroutine.
*/
package lazyfetch

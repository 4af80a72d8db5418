// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing activities with awkward payloads (raw or
// malformed JSON event values). Not intended for production usage.
package testutil

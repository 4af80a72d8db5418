// Package directline implements the server-side token relay for Direct Line
// web chat clients. The channel secret stays on the server; browsers receive
// short-lived tokens scoped to a generated user identity instead.
package directline

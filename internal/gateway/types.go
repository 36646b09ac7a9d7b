// Package gateway types - shared constants for the HTTP surface.
package gateway

// HeaderRequestID carries the request id in and out of the gateway.
// Incoming values are reused for correlation; absent ones are minted.
const HeaderRequestID = "X-Request-ID"

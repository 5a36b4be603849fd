// Package server hosts the MCP server over its two transports and the
// dedicated metrics listener.
//
// Authentication is owned by the reverse proxy in front of this process.
// The proxy injects a Google bearer token into the Authorization header of
// each request; this package only forwards that header into the request
// context so tool handlers can use it for upstream Drive calls. No token
// validation, refresh or persistence happens here.
package server

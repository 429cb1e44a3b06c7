// Package engine is the composition root of anmd. It turns a
// settings.Session into a running batch: it picks the provider adapter from
// a registry keyed by kind, resolves API keys, and wires the batch processor.
//
// Frontends (the CLI, the terminal UI, the MCP server) talk to Engine and
// never construct providers themselves. [Tools] exposes the same operations
// as a toolbox for MCP clients.
package engine

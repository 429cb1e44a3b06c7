// Package tools groups the tool plumbing used to expose anmd to MCP clients.
//
// Subpackages:
//   - [github.com/germanamz/anmd/pkg/tools/toolbox]: Tool type and ToolBox for registering and calling tools
//   - [github.com/germanamz/anmd/pkg/tools/mcpserver]: MCP server that serves a ToolBox over the official MCP Go SDK
package tools

// Package database_tools provides MCP tools that read the OmniFocus
// database as a whole.
//
// # Available Tools
//
//   - omnifocus_list_tags: List all tags with task counts
//   - omnifocus_dump_database: Export projects, tags, inbox and statistics
package database_tools

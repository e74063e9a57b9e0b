// Package perspective_tools provides MCP tools for OmniFocus perspectives.
//
// # Available Tools
//
//   - omnifocus_list_perspectives: List built-in and custom perspectives
//   - omnifocus_get_perspective_tasks: List the tasks a custom perspective shows
//
// Reading a perspective's tasks switches the frontmost OmniFocus window to
// that perspective, a side effect OmniJS does not offer a way around.
package perspective_tools

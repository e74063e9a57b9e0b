// Package query_tools provides the read-only MCP tools that query
// OmniFocus tasks.
//
// # Available Tools
//
//   - omnifocus_get_inbox_tasks: All tasks in the inbox
//   - omnifocus_get_flagged_tasks: Incomplete flagged tasks
//   - omnifocus_get_forecast_tasks: Tasks due within 7 days or flagged
//   - omnifocus_get_completed_today: Tasks completed since local midnight
//   - omnifocus_get_tasks_by_tag: Incomplete tasks carrying a named tag
//   - omnifocus_filter_tasks: Tasks matching a conjunction of criteria
//
// All tools are read-only and available in every server mode.
package query_tools

// Package task_tools provides MCP tools for creating, reading, editing and
// removing OmniFocus tasks.
//
// # Available Tools
//
//   - omnifocus_add_task: Create a task via transport text parsing
//   - omnifocus_get_task: Get the full detail of a task by ID
//   - omnifocus_edit_task: Update supplied fields of an existing task
//   - omnifocus_remove_task: Delete a task
//   - omnifocus_batch_add_tasks: Create many tasks in one bridge invocation
//   - omnifocus_batch_complete_tasks: Complete many tasks in one bridge invocation
//
// Write tools (add, edit, remove, batch) are only registered when the server
// runs with write access enabled.
package task_tools

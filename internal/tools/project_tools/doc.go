// Package project_tools provides MCP tools for managing OmniFocus projects.
//
// # Available Tools
//
//   - omnifocus_add_project: Create a project, optionally inside a folder
//   - omnifocus_edit_project: Update supplied fields of an existing project
//   - omnifocus_remove_project: Delete a project and its tasks
//   - omnifocus_list_projects: List all projects with counts and review intervals
//
// Write tools (add, edit, remove) are only registered when the server runs
// with write access enabled.
package project_tools

package omnifocus

import (
	"fmt"
	"strings"

	"github.com/taskbridge/omnifocus-mcp/internal/omnijs"
)

// errorBoundary wraps a script body in an IIFE that converts exceptions
// thrown inside OmniFocus into {error} results, so application failures
// come back as data rather than non-zero osascript exits.
func errorBoundary(body string) string {
	return fmt.Sprintf(`(() => {
  try {
%s
  } catch (err) {
    return { error: err.toString() };
  }
})()`, body)
}

func addTaskScript(d TaskDraft) string {
	transport := omnijs.EscapeSingleQuotes(d.TransportText())
	note := omnijs.MustLiteral(d.Note)
	return errorBoundary(fmt.Sprintf(`    const tasks = Task.byParsingTransportText('%s');
    if (!tasks || tasks.length === 0) {
      return { error: "Failed to create task from transport text" };
    }
    const task = tasks[0];
    if (%s !== "") {
      task.note = %s;
    }
    return { success: true, id: task.id.primaryKey, name: task.name };`,
		transport, note, note))
}

func addProjectScript(d ProjectDraft) string {
	name := omnijs.EscapeSingleQuotes(d.Name)
	folder := omnijs.EscapeSingleQuotes(d.Folder)
	note := omnijs.MustLiteral(d.Note)
	var b strings.Builder
	fmt.Fprintf(&b, `    let parent = null;
    if ('%s') {
      parent = folders.byName['%s'] || new Folder('%s');
    }
    const project = new Project('%s', parent);
`, folder, folder, folder, name)
	if d.Sequential {
		b.WriteString("    project.sequential = true;\n")
	}
	if d.Note != "" {
		fmt.Fprintf(&b, "    project.note = %s;\n", note)
	}
	if d.ReviewInterval != "" {
		fmt.Fprintf(&b, "%s\n", reviewIntervalSnippet("project", d.ReviewInterval))
	}
	if d.CompletionRule == "last-action" {
		b.WriteString("    project.completedByChildren = true;\n")
	}
	b.WriteString("    return { success: true, id: project.id.primaryKey, name: project.name };")
	return errorBoundary(b.String())
}

// reviewIntervalSnippet parses phrases like "1 week" or "3 days" into a
// review interval in seconds. Unrecognized units leave the interval alone.
func reviewIntervalSnippet(target, interval string) string {
	return fmt.Sprintf(`    const interval = '%s';
    if (interval.includes('week')) {
      const weeks = parseInt(interval) || 1;
      %s.reviewInterval = weeks * 7 * 24 * 60 * 60;
    } else if (interval.includes('day')) {
      const days = parseInt(interval) || 1;
      %s.reviewInterval = days * 24 * 60 * 60;
    } else if (interval.includes('month')) {
      const months = parseInt(interval) || 1;
      %s.reviewInterval = months * 30 * 24 * 60 * 60;
    }`, omnijs.EscapeSingleQuotes(interval), target, target, target)
}

const inboxTasksScript = `(() => {
  try {
    const inboxTasks = inbox.flattenedTasks || inbox.tasks || [];
    return inboxTasks.map(t => ({
      id: t.id.primaryKey,
      name: t.name,
      note: t.note || "",
      flagged: t.flagged,
      completed: t.completed
    }));
  } catch (err) {
    return { error: err.toString() };
  }
})()`

const flaggedTasksScript = `(() => {
  try {
    return flattenedTasks.filter(t => t.flagged && !t.completed).map(t => ({
      id: t.id.primaryKey,
      name: t.name,
      project: t.containingProject ? t.containingProject.name : null,
      due: t.effectiveDueDate ? t.effectiveDueDate.toISOString() : null,
      defer: t.effectiveDeferDate ? t.effectiveDeferDate.toISOString() : null,
      note: t.note || ""
    }));
  } catch (err) {
    return { error: err.toString() };
  }
})()`

const forecastTasksScript = `(() => {
  try {
    const today = new Date();
    const weekFromNow = new Date(today.getTime() + 7 * 24 * 60 * 60 * 1000);
    return flattenedTasks.filter(t => {
      if (t.completed) return false;
      if (t.flagged) return true;
      if (t.effectiveDueDate) {
        return t.effectiveDueDate <= weekFromNow;
      }
      return false;
    }).map(t => ({
      id: t.id.primaryKey,
      name: t.name,
      project: t.containingProject ? t.containingProject.name : null,
      due: t.effectiveDueDate ? t.effectiveDueDate.toISOString() : null,
      flagged: t.flagged,
      type: t.flagged ? "flagged" : "due"
    }));
  } catch (err) {
    return { error: err.toString() };
  }
})()`

func taskByIDScript(id string) string {
	return errorBoundary(fmt.Sprintf(`    const task = Task.byIdentifier('%s');
    if (!task) {
      return { error: "Task not found" };
    }
    return {
      id: task.id.primaryKey,
      name: task.name,
      note: task.note || "",
      completed: task.completed,
      flagged: task.flagged,
      project: task.containingProject ? task.containingProject.name : null,
      tags: task.tags.map(t => t.name),
      due: task.dueDate ? task.dueDate.toISOString() : null,
      defer: task.deferDate ? task.deferDate.toISOString() : null,
      estimated_minutes: task.estimatedMinutes,
      completion_date: task.completionDate ? task.completionDate.toISOString() : null
    };`, omnijs.EscapeSingleQuotes(id)))
}

func tasksByTagScript(tag string) string {
	return errorBoundary(fmt.Sprintf(`    const tag = tags.byName['%s'];
    if (!tag) {
      return [];
    }
    return tag.tasks.filter(t => !t.completed).map(t => ({
      id: t.id.primaryKey,
      name: t.name,
      project: t.containingProject ? t.containingProject.name : null,
      due: t.effectiveDueDate ? t.effectiveDueDate.toISOString() : null,
      flagged: t.flagged,
      note: t.note || ""
    }));`, omnijs.EscapeSingleQuotes(tag)))
}

const completedTodayScript = `(() => {
  try {
    const today = new Date();
    today.setHours(0, 0, 0, 0);
    const tomorrow = new Date(today);
    tomorrow.setDate(tomorrow.getDate() + 1);
    return flattenedTasks.filter(t => {
      return t.completed &&
             t.completionDate >= today &&
             t.completionDate < tomorrow;
    }).map(t => ({
      id: t.id.primaryKey,
      name: t.name,
      project: t.containingProject ? t.containingProject.name : null,
      completion_time: t.completionDate.toISOString(),
      tags: t.tags.map(tag => tag.name)
    }));
  } catch (err) {
    return { error: err.toString() };
  }
})()`

// dateAssignSnippet assigns a date field from a literal string. Absolute
// date strings the JavaScript Date constructor understands are assigned;
// anything else (including "null" and "") clears the field.
func dateAssignSnippet(field, varName, value string) string {
	return fmt.Sprintf(`    const %s = '%s';
    if (%s === 'null' || %s === '') {
      task.%s = null;
    } else {
      const parsed = new Date(%s);
      if (!isNaN(parsed)) {
        task.%s = parsed;
      } else {
        task.%s = null;
      }
    }`, varName, omnijs.EscapeSingleQuotes(value),
		varName, varName, field, varName, field, field)
}

func editTaskScript(id string, e TaskEdit) string {
	var updates []string
	if e.Name != nil {
		updates = append(updates, fmt.Sprintf("    task.name = %s;", omnijs.MustLiteral(*e.Name)))
	}
	if e.Note != nil {
		updates = append(updates, fmt.Sprintf("    task.note = %s;", omnijs.MustLiteral(*e.Note)))
	}
	if e.Flagged != nil {
		updates = append(updates, fmt.Sprintf("    task.flagged = %t;", *e.Flagged))
	}
	if e.Completed != nil {
		updates = append(updates, fmt.Sprintf("    task.completed = %t;", *e.Completed))
	}
	if e.DueDate != nil {
		if *e.DueDate == "" {
			updates = append(updates, "    task.dueDate = null;")
		} else {
			updates = append(updates, dateAssignSnippet("dueDate", "dueStr", *e.DueDate))
		}
	}
	if e.DeferDate != nil {
		if *e.DeferDate == "" {
			updates = append(updates, "    task.deferDate = null;")
		} else {
			updates = append(updates, dateAssignSnippet("deferDate", "deferStr", *e.DeferDate))
		}
	}
	if e.Project != nil {
		project := omnijs.EscapeSingleQuotes(*e.Project)
		updates = append(updates, fmt.Sprintf(`    if ('%s') {
      const proj = projects.byName['%s'];
      if (proj) {
        task.containingProject = proj;
      }
    } else {
      task.containingProject = null;
    }`, project, project))
	}
	if e.Tags != nil {
		tags := *e.Tags
		if tags == nil {
			tags = []string{}
		}
		updates = append(updates, fmt.Sprintf(`    const tagNames = %s;
    const newTags = [];
    tagNames.forEach(name => {
      let tag = tags.byName[name];
      if (!tag) {
        tag = new Tag(name);
      }
      newTags.push(tag);
    });
    task.tags = newTags;`, omnijs.MustLiteral(tags)))
	}

	return errorBoundary(fmt.Sprintf(`    const task = Task.byIdentifier('%s');
    if (!task) {
      return { error: "Task not found" };
    }
%s
    return { success: true, id: task.id.primaryKey, name: task.name };`,
		omnijs.EscapeSingleQuotes(id), strings.Join(updates, "\n")))
}

// projectStatuses maps the accepted status parameter values to OmniJS
// status constants. Unknown values are ignored.
var projectStatuses = map[string]string{
	"active":  "Project.Status.Active",
	"on-hold": "Project.Status.OnHold",
	"dropped": "Project.Status.Dropped",
	"done":    "Project.Status.Done",
}

func editProjectScript(id string, e ProjectEdit) string {
	var updates []string
	if e.Name != nil {
		updates = append(updates, fmt.Sprintf("    project.name = %s;", omnijs.MustLiteral(*e.Name)))
	}
	if e.Note != nil {
		updates = append(updates, fmt.Sprintf("    project.note = %s;", omnijs.MustLiteral(*e.Note)))
	}
	if e.Status != nil {
		if status, ok := projectStatuses[strings.ToLower(*e.Status)]; ok {
			updates = append(updates, fmt.Sprintf("    project.status = %s;", status))
		}
	}
	if e.Sequential != nil {
		updates = append(updates, fmt.Sprintf("    project.sequential = %t;", *e.Sequential))
	}
	if e.CompletionRule != nil {
		updates = append(updates, fmt.Sprintf("    project.completedByChildren = %t;", *e.CompletionRule == "last-action"))
	}
	if e.Folder != nil {
		folder := omnijs.EscapeSingleQuotes(*e.Folder)
		updates = append(updates, fmt.Sprintf(`    if ('%s') {
      project.parentFolder = folders.byName['%s'] || new Folder('%s');
    } else {
      project.parentFolder = null;
    }`, folder, folder, folder))
	}
	if e.ReviewInterval != nil {
		updates = append(updates, reviewIntervalSnippet("project", *e.ReviewInterval))
	}

	return errorBoundary(fmt.Sprintf(`    const project = Project.byIdentifier('%s');
    if (!project) {
      return { error: "Project not found" };
    }
%s
    return { success: true, id: project.id.primaryKey, name: project.name };`,
		omnijs.EscapeSingleQuotes(id), strings.Join(updates, "\n")))
}

func removeTaskScript(id string) string {
	return errorBoundary(fmt.Sprintf(`    const task = Task.byIdentifier('%s');
    if (!task) {
      return { error: "Task not found" };
    }
    const name = task.name;
    deleteObject(task);
    return { success: true, name: name };`, omnijs.EscapeSingleQuotes(id)))
}

func removeProjectScript(id string) string {
	return errorBoundary(fmt.Sprintf(`    const project = Project.byIdentifier('%s');
    if (!project) {
      return { error: "Project not found" };
    }
    const name = project.name;
    deleteObject(project);
    return { success: true, name: name };`, omnijs.EscapeSingleQuotes(id)))
}

// batchAddScript creates every draft inside a single round trip. Each item
// carries its own try/catch so one bad draft cannot abort the rest; the
// script always returns the per-item result list.
func batchAddScript(drafts []TaskDraft) string {
	return fmt.Sprintf(`(() => {
  const results = [];
  const tasksData = %s;
  tasksData.forEach(taskData => {
    try {
      let parts = [taskData.name];
      if (taskData.project) parts.push('::' + taskData.project);
      if (taskData.tags) {
        taskData.tags.forEach(tag => parts.push('@' + tag));
      }
      if (taskData.defer_date) parts.push('#' + taskData.defer_date);
      if (taskData.due_date) parts.push('#' + taskData.due_date);
      if (taskData.flagged) parts.push("!");
      const transportText = parts.join(" ");
      const tasks = Task.byParsingTransportText(transportText);
      if (tasks && tasks.length > 0) {
        const task = tasks[0];
        if (taskData.note) {
          task.note = taskData.note;
        }
        results.push({ success: true, id: task.id.primaryKey, name: task.name });
      } else {
        results.push({ success: false, error: "Failed to create task", name: taskData.name });
      }
    } catch (err) {
      results.push({ success: false, error: err.toString(), name: taskData.name });
    }
  });
  return results;
})()`, omnijs.MustLiteral(drafts))
}

func batchCompleteScript(ids []string) string {
	return fmt.Sprintf(`(() => {
  const taskIds = %s;
  const results = [];
  taskIds.forEach(id => {
    try {
      const task = Task.byIdentifier(id);
      if (task) {
        task.completed = true;
        results.push({ success: true, id: id, name: task.name });
      } else {
        results.push({ success: false, id: id, error: "Task not found" });
      }
    } catch (err) {
      results.push({ success: false, id: id, error: err.toString() });
    }
  });
  return results;
})()`, omnijs.MustLiteral(ids))
}

const perspectivesScript = `(() => {
  try {
    return perspectives.map(p => ({
      id: p.id.primaryKey,
      name: p.name,
      isBuiltIn: p.isBuiltIn
    }));
  } catch (err) {
    return { error: err.toString() };
  }
})()`

// perspectiveTasksScript switches the frontmost window to the named
// perspective and walks its visible content tree. The window mutation is
// observable to anyone looking at the OmniFocus UI; there is no
// side-effect-free way to evaluate a custom perspective's rules.
func perspectiveTasksScript(name string) string {
	return errorBoundary(fmt.Sprintf(`    const p = perspectives.byName['%s'];
    if (!p) {
      return { error: "Perspective not found" };
    }
    const window = document.windows[0];
    window.perspective = p;
    const tree = window.content;
    const tasks = [];
    function extractTasks(items) {
      items.forEach(item => {
        if (item.object instanceof Task) {
          tasks.push({
            id: item.object.id.primaryKey,
            name: item.object.name,
            project: item.object.containingProject ? item.object.containingProject.name : null,
            due: item.object.effectiveDueDate ? item.object.effectiveDueDate.toISOString() : null,
            flagged: item.object.flagged
          });
        }
        if (item.children) {
          extractTasks(item.children);
        }
      });
    }
    if (tree && tree.rootNode && tree.rootNode.children) {
      extractTasks(tree.rootNode.children);
    }
    return tasks;`, omnijs.EscapeSingleQuotes(name)))
}

func filterTasksScript(f Filter) string {
	return errorBoundary(fmt.Sprintf(`    return flattenedTasks.filter(t => %s).map(t => ({
      id: t.id.primaryKey,
      name: t.name,
      note: t.note || "",
      completed: t.completed,
      flagged: t.flagged,
      project: t.containingProject ? t.containingProject.name : null,
      tags: t.tags.map(tag => tag.name),
      due: t.effectiveDueDate ? t.effectiveDueDate.toISOString() : null,
      defer: t.effectiveDeferDate ? t.effectiveDeferDate.toISOString() : null
    }));`, f.Expression()))
}

const listProjectsScript = `(() => {
  try {
    return projects.map(p => {
      let statusName = 'Active';
      if (p.status) {
        if (p.status === Project.Status.Active) statusName = 'Active';
        else if (p.status === Project.Status.OnHold) statusName = 'OnHold';
        else if (p.status === Project.Status.Dropped) statusName = 'Dropped';
        else if (p.status === Project.Status.Done) statusName = 'Done';
      }
      return {
        id: p.id.primaryKey,
        name: p.name,
        status: statusName,
        folder: p.folder ? p.folder.name : null,
        sequential: p.sequential,
        task_count: p.tasks.length,
        remaining_count: p.tasks.filter(t => !t.completed).length,
        review_interval_days: p.reviewInterval ? p.reviewInterval / (24 * 60 * 60) : null
      };
    });
  } catch (err) {
    return { error: err.toString() };
  }
})()`

const listTagsScript = `(() => {
  try {
    return tags.map(t => ({
      id: t.id.primaryKey,
      name: t.name,
      parent: t.parent ? t.parent.name : null,
      task_count: t.tasks.length,
      remaining_count: t.tasks.filter(task => !task.completed).length
    }));
  } catch (err) {
    return { error: err.toString() };
  }
})()`

// dumpScript exports projects, tags, inbox, and summary statistics. Task
// trees recurse to maxDepth; a depth of zero yields empty task lists while
// still reporting project metadata and stats.
func dumpScript(includeCompleted bool, maxDepth int) string {
	return errorBoundary(fmt.Sprintf(`    const includeCompleted = %t;
    const maxDepth = %d;
    function mapTask(task, depth = 0) {
      if (depth >= maxDepth) return null;
      if (!includeCompleted && task.completed) return null;
      const children = task.children
        .map(child => mapTask(child, depth + 1))
        .filter(c => c !== null);
      return {
        id: task.id.primaryKey,
        name: task.name,
        completed: task.completed,
        flagged: task.flagged,
        note: task.note || "",
        tags: task.tags.map(t => t.name),
        due: task.dueDate ? task.dueDate.toISOString() : null,
        defer: task.deferDate ? task.deferDate.toISOString() : null,
        children: children
      };
    }
    const projectsData = projects.map(p => {
      const tasks = p.rootTask.children
        .map(t => mapTask(t, 0))
        .filter(t => t !== null);
      return {
        id: p.id.primaryKey,
        name: p.name,
        status: p.status.name,
        sequential: p.sequential,
        folder: p.folder ? p.folder.name : null,
        tasks: tasks
      };
    });
    const tagsData = tags.map(t => ({
      id: t.id.primaryKey,
      name: t.name,
      parent: t.parent ? t.parent.name : null
    }));
    const inboxData = inbox.tasks
      .map(t => mapTask(t, 0))
      .filter(t => t !== null);
    return {
      projects: projectsData,
      tags: tagsData,
      inbox: inboxData,
      stats: {
        total_projects: projects.length,
        active_projects: projects.filter(p => p.status === Project.Status.Active).length,
        total_tasks: flattenedTasks.length,
        remaining_tasks: flattenedTasks.filter(t => !t.completed).length,
        flagged_tasks: flattenedTasks.filter(t => !t.completed && t.flagged).length
      }
    };`, includeCompleted, maxDepth))
}

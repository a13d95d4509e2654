package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Task is an in-memory todo item managed by the CLI. Unlike server-side
// todos, tasks use small auto-incrementing ids for easy typing.
type Task struct {
	ID          int
	Title       string
	Description string
	IsComplete  bool
}

// TodoManager is an in-memory CRUD manager for CLI tasks. Tasks live in
// insertion order for the lifetime of one session.
type TodoManager struct {
	tasks  []Task
	nextID int
}

func NewTodoManager() *TodoManager {
	return &TodoManager{nextID: 1}
}

// CreateTask adds a new task and returns it. The title must not be blank.
func (m *TodoManager) CreateTask(title, description string) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, fmt.Errorf("title cannot be empty or whitespace-only")
	}

	task := Task{
		ID:          m.nextID,
		Title:       title,
		Description: description,
	}
	m.tasks = append(m.tasks, task)
	m.nextID++
	return task, nil
}

// AllTasks returns every task in insertion order.
func (m *TodoManager) AllTasks() []Task {
	tasks := make([]Task, len(m.tasks))
	copy(tasks, m.tasks)
	return tasks
}

// GetTask returns the task with the given id, or false if none exists.
func (m *TodoManager) GetTask(id int) (Task, bool) {
	for _, task := range m.tasks {
		if task.ID == id {
			return task, true
		}
	}
	return Task{}, false
}

// UpdateTask replaces the title and/or description of a task. Nil means
// keep the current value.
func (m *TodoManager) UpdateTask(id int, title, description *string) (Task, error) {
	for i, task := range m.tasks {
		if task.ID != id {
			continue
		}
		newTitle := task.Title
		if title != nil {
			newTitle = *title
		}
		if strings.TrimSpace(newTitle) == "" {
			return Task{}, fmt.Errorf("title cannot be empty or whitespace-only")
		}
		m.tasks[i].Title = newTitle
		if description != nil {
			m.tasks[i].Description = *description
		}
		return m.tasks[i], nil
	}
	return Task{}, fmt.Errorf("task %d not found", id)
}

// MarkComplete sets a task's completion status.
func (m *TodoManager) MarkComplete(id int, isComplete bool) (Task, error) {
	for i, task := range m.tasks {
		if task.ID == id {
			m.tasks[i].IsComplete = isComplete
			return m.tasks[i], nil
		}
	}
	return Task{}, fmt.Errorf("task %d not found", id)
}

// DeleteTask removes a task, reporting whether it existed.
func (m *TodoManager) DeleteTask(id int) bool {
	for i, task := range m.tasks {
		if task.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// formatTask renders one task as "[id] ☐/☑ title | description" with long
// titles truncated to 60 characters.
func formatTask(task Task) string {
	checkbox := "☐"
	if task.IsComplete {
		checkbox = "☑"
	}

	title := task.Title
	if len([]rune(title)) > 60 {
		title = string([]rune(title)[:57]) + "..."
	}

	return fmt.Sprintf("[%d] %s %s | %s", task.ID, checkbox, title, task.Description)
}

func newCLICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cli",
		Short: "Run the interactive in-memory todo manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCLI(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

const cliHelp = `Commands:
  add <title> [| description]   add a task
  list                          show all tasks
  update <id> <title>           change a task's title
  done <id>                     mark a task complete
  undone <id>                   mark a task incomplete
  delete <id>                   remove a task
  help                          show this help
  quit                          exit`

// runCLI drives the interactive todo loop until EOF or quit.
func runCLI(in io.Reader, out io.Writer) error {
	manager := NewTodoManager()
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "Todo CLI (in-memory). Type 'help' for commands.")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		command, rest := line, ""
		if i := strings.IndexByte(line, ' '); i >= 0 {
			command, rest = line[:i], strings.TrimSpace(line[i+1:])
		}

		switch command {
		case "add":
			title, description := rest, ""
			if i := strings.IndexByte(rest, '|'); i >= 0 {
				title = strings.TrimSpace(rest[:i])
				description = strings.TrimSpace(rest[i+1:])
			}
			task, err := manager.CreateTask(title, description)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Added %s\n", formatTask(task))

		case "list":
			tasks := manager.AllTasks()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks yet.")
				continue
			}
			for _, task := range tasks {
				fmt.Fprintln(out, formatTask(task))
			}

		case "update":
			id, newTitle := splitIDArg(rest)
			if id == 0 || newTitle == "" {
				fmt.Fprintln(out, "Usage: update <id> <title>")
				continue
			}
			task, err := manager.UpdateTask(id, &newTitle, nil)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Updated %s\n", formatTask(task))

		case "done", "undone":
			id, _ := splitIDArg(rest)
			if id == 0 {
				fmt.Fprintf(out, "Usage: %s <id>\n", command)
				continue
			}
			task, err := manager.MarkComplete(id, command == "done")
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, formatTask(task))

		case "delete":
			id, _ := splitIDArg(rest)
			if id == 0 {
				fmt.Fprintln(out, "Usage: delete <id>")
				continue
			}
			if manager.DeleteTask(id) {
				fmt.Fprintf(out, "Deleted task %d\n", id)
			} else {
				fmt.Fprintf(out, "Task %d not found\n", id)
			}

		case "help":
			fmt.Fprintln(out, cliHelp)

		case "quit", "exit":
			return nil

		default:
			fmt.Fprintf(out, "Unknown command %q. Type 'help' for commands.\n", command)
		}
	}
	return scanner.Err()
}

// splitIDArg parses "<id> [rest]" returning 0 on a malformed id.
func splitIDArg(s string) (int, string) {
	idPart, rest := s, ""
	if i := strings.IndexByte(s, ' '); i >= 0 {
		idPart, rest = s[:i], strings.TrimSpace(s[i+1:])
	}
	id, err := strconv.Atoi(idPart)
	if err != nil || id <= 0 {
		return 0, rest
	}
	return id, rest
}

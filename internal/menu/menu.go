package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/phrazzld/taskcache/internal/domain"
	"github.com/phrazzld/taskcache/internal/service"
)

// Menu options as shown to the user.
const (
	OptionCreateUser   = "1"
	OptionCreateTask   = "2"
	OptionListTasks    = "3"
	OptionDeleteTask   = "4"
	OptionCompleteTask = "5"
	OptionListUrgent   = "6"
	OptionExit         = "7"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Align(lipgloss.Left)
	cellStyle    = lipgloss.NewStyle().PaddingRight(2).Align(lipgloss.Left)
)

// Menu drives the task service from a line-oriented terminal session.
type Menu struct {
	svc    service.TaskService
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Menu.
type Option func(*Menu)

// WithClock overrides the time used to render relative creation times.
func WithClock(now func() time.Time) Option {
	return func(m *Menu) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a menu reading from in and writing to out.
func New(svc service.TaskService, in io.Reader, out io.Writer, logger *slog.Logger, opts ...Option) *Menu {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Menu{
		svc:    svc,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger.With("component", "menu"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run shows the menu until the user picks exit, the input ends or ctx is
// cancelled. Service failures are reported to the user and the loop goes on.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printOptions()
		choice, err := m.prompt("Choose an option: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.println("")
				return nil
			}
			return err
		}

		switch choice {
		case OptionCreateUser:
			err = m.createUser(ctx)
		case OptionCreateTask:
			err = m.createTask(ctx)
		case OptionListTasks:
			err = m.listTasks(ctx)
		case OptionDeleteTask:
			err = m.deleteTask(ctx)
		case OptionCompleteTask:
			err = m.completeTask(ctx)
		case OptionListUrgent:
			err = m.listUrgent(ctx)
		case OptionExit:
			m.println("Goodbye")
			return nil
		default:
			m.fail("Invalid option, choose 1-7")
			continue
		}

		if errors.Is(err, io.EOF) {
			m.println("")
			return nil
		}
		if err != nil {
			m.report(err)
		}
	}
}

func (m *Menu) printOptions() {
	m.println("")
	m.println(titleStyle.Render("Task manager"))
	m.println("1. Create user")
	m.println("2. Create task")
	m.println("3. List a user's tasks")
	m.println("4. Delete task")
	m.println("5. Complete task")
	m.println("6. List urgent tasks")
	m.println("7. Exit")
}

func (m *Menu) createUser(ctx context.Context) error {
	var draft domain.UserDraft
	var err error
	if draft.Name, err = m.prompt("Name: "); err != nil {
		return err
	}
	if draft.Email, err = m.prompt("Email: "); err != nil {
		return err
	}
	if draft.Role, err = m.prompt("Role: "); err != nil {
		return err
	}
	if draft.Password, err = m.prompt("Password: "); err != nil {
		return err
	}

	id, err := m.svc.CreateUser(ctx, draft)
	if err != nil {
		return err
	}
	m.succeed("User created with ID: " + id.Hex())
	return nil
}

func (m *Menu) createTask(ctx context.Context) error {
	var draft domain.TaskDraft
	var err error
	if draft.Title, err = m.prompt("Title: "); err != nil {
		return err
	}
	if draft.Description, err = m.prompt("Description: "); err != nil {
		return err
	}

	rawPriority, err := m.prompt("Priority (high/medium/low): ")
	if err != nil {
		return err
	}
	if draft.Priority, err = domain.ParsePriority(rawPriority); err != nil {
		return err
	}

	rawDue, err := m.prompt("Due date (YYYY-MM-DD, empty for none): ")
	if err != nil {
		return err
	}
	if draft.DueDate, err = domain.ParseDueDate(rawDue); err != nil {
		return err
	}

	if draft.AssignedUserID, err = m.prompt("Assigned user ID: "); err != nil {
		return err
	}

	id, err := m.svc.CreateTask(ctx, draft)
	if err != nil {
		return err
	}
	m.succeed("Task created with ID: " + id.Hex())
	return nil
}

func (m *Menu) listTasks(ctx context.Context) error {
	userID, err := m.prompt("User ID: ")
	if err != nil {
		return err
	}

	tasks, err := m.svc.GetTasksForUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		m.println("The user has no tasks")
		return nil
	}
	m.printTasks("Tasks for "+userID, tasks)
	return nil
}

func (m *Menu) deleteTask(ctx context.Context) error {
	taskID, err := m.prompt("Task ID: ")
	if err != nil {
		return err
	}

	removed, err := m.svc.DeleteTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !removed {
		m.fail("Task not found")
		return nil
	}
	m.succeed("Task deleted")
	return nil
}

func (m *Menu) completeTask(ctx context.Context) error {
	taskID, err := m.prompt("Task ID: ")
	if err != nil {
		return err
	}

	modified, err := m.svc.CompleteTask(ctx, taskID)
	if err != nil {
		return err
	}
	if !modified {
		m.fail("Task not found or already completed")
		return nil
	}
	m.succeed("Task marked as completed")
	return nil
}

func (m *Menu) listUrgent(ctx context.Context) error {
	tasks, err := m.svc.ListUrgentTasks(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		m.println("No urgent tasks stored")
		return nil
	}
	m.printTasks("Urgent tasks", tasks)
	return nil
}

func (m *Menu) printTasks(heading string, tasks []*domain.Task) {
	rows := make([][]string, 0, len(tasks))
	for _, task := range tasks {
		due := "-"
		if task.DueDate != nil {
			due = task.DueDate.UTC().Format(domain.DueDateLayout)
		}
		status := "pending"
		if task.Completed {
			status = "done"
		}
		created := "-"
		if !task.CreatedAt.IsZero() {
			created = humanize.RelTime(task.CreatedAt, m.now(), "ago", "from now")
		}
		rows = append(rows, []string{
			task.ID.Hex(), task.Title, string(task.Priority), due, status, created,
		})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "TITLE", "PRIORITY", "DUE", "STATUS", "CREATED").
		Rows(rows...)

	m.println(titleStyle.Render(heading))
	m.println(t.Render())
}

// report prints a user-facing description of a failed action.
func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, service.ErrInvalidReference):
		m.fail("Invalid or unknown identifier: " + err.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidDueDate):
		m.fail("Invalid input: " + err.Error())
	default:
		m.logger.Error("menu action failed", "error", err)
		m.fail("The operation failed, see the log for details")
	}
}

// prompt prints label and returns the trimmed line typed in reply. A final
// line without a newline is still returned; io.EOF only comes back once the
// input is exhausted.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) succeed(s string) {
	m.println(successStyle.Render(s))
}

func (m *Menu) fail(s string) {
	m.println(errorStyle.Render(s))
}

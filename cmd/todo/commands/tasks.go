package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"todo-cli/internal/render"
	"todo-cli/internal/repositories"
	"todo-cli/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// taskNumberError reports a failed operation on the task the user numbered.
type taskNumberError struct {
	number int
	err    error
}

func (e *taskNumberError) Error() string {
	if errors.Is(e.err, repositories.ErrTaskNotFound) {
		return fmt.Sprintf("Task #%d not found", e.number)
	}
	return e.err.Error()
}

func (e *taskNumberError) Unwrap() error {
	return e.err
}

func parseTaskNumber(arg string) (int, error) {
	number, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", services.ErrInvalidTaskNumber, arg)
	}
	return number, nil
}

// NewAddCmd creates the add command
func NewAddCmd(opts *globalOptions) *cobra.Command {
	var due string

	cmd := &cobra.Command{
		Use:   "add <task...>",
		Short: "Add a new task",
		Long:  "Add a new task. Words are joined with spaces, so quoting is optional.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(s *session) error {
				task, err := s.service.AddTask(services.AddTaskInput{
					Description: strings.Join(args, " "),
					Due:         due,
				})
				if err != nil {
					return err
				}
				s.log.Debug("task_added", zap.Uint("id", task.ID))
				fmt.Fprintf(cmd.OutOrStdout(), "Added task: %s\n", task.Description)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	return cmd
}

// NewListCmd creates the list command
func NewListCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Long:  "List tasks with dated tasks first in chronological order, then undated tasks in the order they were added.\nTask numbers follow this order and shift when tasks are added or removed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			return opts.run(func(s *session) error {
				tasks, err := s.service.ListTasks()
				if err != nil {
					return fmt.Errorf("failed to list tasks: %w", err)
				}

				renderer := render.Renderer{
					Format:     outputFormat,
					TimeFormat: render.TimeFormat(s.cfg.Display.TimeFormat),
				}
				return renderer.Render(cmd.OutOrStdout(), tasks)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatTable), "output format: table, json or yaml")
	return cmd
}

// NewDoneCmd creates the done command
func NewDoneCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <n>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseTaskNumber(args[0])
			if err != nil {
				return err
			}

			return opts.run(func(s *session) error {
				if err := s.service.CompleteTask(number); err != nil {
					return &taskNumberError{number: number, err: err}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked task #%d as done\n", number)
				return nil
			})
		},
	}
}

// NewRemoveCmd creates the remove command
func NewRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <n>",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseTaskNumber(args[0])
			if err != nil {
				return err
			}

			return opts.run(func(s *session) error {
				if err := s.service.RemoveTask(number); err != nil {
					return &taskNumberError{number: number, err: err}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed task #%d\n", number)
				return nil
			})
		},
	}
}

// NewCleanCmd creates the clean command
func NewCleanCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove all tasks marked as done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(func(s *session) error {
				removed, err := s.service.CleanTasks()
				if err != nil {
					return fmt.Errorf("failed to clear completed tasks: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s)\n", removed)
				return nil
			})
		},
	}
}

// NewResetCmd creates the reset command
func NewResetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the task store",
		Long:  "Delete the task store file and every task in it. This cannot be undone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(false)
			if errors.Is(err, repositories.ErrLegacySchema) || errors.Is(err, repositories.ErrUnsupportedSchema) {
				cfg, cfgErr := opts.loadConfig()
				if cfgErr != nil {
					return cfgErr
				}
				if err := repositories.RemoveFiles(cfg.Database.Path); err != nil {
					return fmt.Errorf("failed to reset task store: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed task store %s\n", cfg.Database.Path)
				return nil
			}
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.service.Reset(); err != nil {
				return fmt.Errorf("failed to reset task store: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task store %s\n", s.cfg.Database.Path)
			return nil
		},
	}
}

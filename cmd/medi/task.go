package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cladam/medi/pkg/core"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks linked to notes",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [note-key] [description]",
	Short: "Add a new task linked to a note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc, closeFn := openService()
		defer closeFn()

		task, err := svc.AddTask(args[0], args[1])
		if err != nil {
			fatal("Failed to add task", err)
		}
		fmt.Printf("Added task %d for note '%s'\n", task.ID, task.NoteKey)
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tasks",
	Run: func(cmd *cobra.Command, args []string) {
		svc, closeFn := openService()
		defer closeFn()

		tasks, err := svc.ListTasks()
		if err != nil {
			fatal("Failed to list tasks", err)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return
		}
		for _, t := range tasks {
			fmt.Printf("%4d  [%s]  %s  (%s)\n", t.ID, t.Status, t.Description, t.NoteKey)
		}
	},
}

// taskStatusCmd builds the done/prio commands, which differ only in
// the target status.
func taskStatusCmd(use, short string, status core.TaskStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [task-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				fatal("Invalid task ID", err)
			}

			svc, closeFn := openService()
			defer closeFn()

			task, err := svc.SetTaskStatus(id, status)
			if err != nil {
				fatal("Failed to update task", err)
			}
			fmt.Printf("Task %d is now %s\n", task.ID, task.Status)
		},
	}
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fatal("Invalid task ID", err)
		}

		svc, closeFn := openService()
		defer closeFn()

		if err := svc.DeleteTask(id); err != nil {
			fatal("Failed to delete task", err)
		}
		fmt.Printf("Deleted task %d\n", id)
	},
}

var taskNextIDCmd = &cobra.Command{
	Use:    "next-id",
	Short:  "Issue and print the next task ID",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		svc, closeFn := openService()
		defer closeFn()

		id, err := svc.NextTaskID()
		if err != nil {
			fatal("Failed to issue task ID", err)
		}
		fmt.Println(id)
	},
}

var taskResetCmd = &cobra.Command{
	Use:    "reset",
	Short:  "Delete all tasks and reset the ID counter",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		svc, closeFn := openService()
		defer closeFn()

		count, err := svc.DeleteAllTasks()
		if err != nil {
			fatal("Failed to delete tasks", err)
		}
		if err := svc.ResetTaskCounter(); err != nil {
			fatal("Failed to reset the task counter", err)
		}
		fmt.Printf("Deleted %d tasks and reset the counter.\n", count)
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskStatusCmd("done", "Mark a task as done", core.TaskDone))
	taskCmd.AddCommand(taskStatusCmd("prio", "Prioritize a task", core.TaskPrio))
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskNextIDCmd)
	taskCmd.AddCommand(taskResetCmd)
}

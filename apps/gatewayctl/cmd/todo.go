package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage your todos",
}

var (
	todoPage  int
	todoLimit int
)

var todoListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List todos, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSdk(cmd)
		if err != nil {
			return err
		}

		page, err := sdk.ListTodos(cmd.Context(), todoPage, todoLimit)
		if err != nil {
			return friendly(err)
		}
		if len(page.Todos) == 0 {
			fmt.Println("No todos")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDONE\tTEXT")
		for _, t := range page.Todos {
			done := " "
			if t.IsDone {
				done = "x"
			}
			fmt.Fprintf(w, "%s\t[%s]\t%s\n", t.ID, done, t.Text)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("page %d/%d, %d total\n", page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.Total)
		return nil
	},
}

var todoAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a todo",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSdk(cmd)
		if err != nil {
			return err
		}
		todo, err := sdk.AddTodo(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return friendly(err)
		}
		fmt.Printf("Added %s\n", todo.ID)
		return nil
	},
}

var todoDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a todo as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSdk(cmd)
		if err != nil {
			return err
		}
		todo, err := sdk.CompleteTodo(cmd.Context(), args[0])
		if err != nil {
			return friendly(err)
		}
		fmt.Printf("Done: %s\n", todo.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(todoCmd)
	todoCmd.AddCommand(todoListCmd, todoAddCmd, todoDoneCmd)
	todoListCmd.Flags().IntVar(&todoPage, "page", 1, "Page number")
	todoListCmd.Flags().IntVar(&todoLimit, "limit", 20, "Todos per page")
}

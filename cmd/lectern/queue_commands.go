package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lectern/internal/store"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the live queue",
	}

	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))

	return queueCmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the items in the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			queue, err := st.QueueCollection(cmd.Context())
			if err != nil {
				return err
			}
			return printCollection(cmd, ctx, st, queue.ID)
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			queue, err := st.QueueCollection(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := ctx.collectionService(st).ReplaceAll(cmd.Context(), queue.ID, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Queue cleared")
			return nil
		},
	}
}

// printCollection renders one collection as a table of resolved items.
func printCollection(cmd *cobra.Command, ctx *commandContext, st *store.Store, collectionID int64) error {
	items, err := ctx.collectionService(st).Items(cmd.Context(), collectionID)
	if err != nil {
		return err
	}
	resolved, err := ctx.resolver(st).ResolveAll(cmd.Context(), items)
	if err != nil {
		return err
	}

	if len(resolved) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No items")
		return nil
	}

	rows := make([][]string, 0, len(resolved))
	for i, ri := range resolved {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(ri.Item.ID, 10),
			string(ri.Item.Content.Variant()),
			ri.Title(),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"#", "ID", "Type", "Title"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
	))
	return nil
}

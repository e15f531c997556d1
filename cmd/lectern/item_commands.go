package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/services"
	"lectern/internal/store"
	"lectern/internal/transcode"
)

func newItemCommand(ctx *commandContext) *cobra.Command {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Edit items in the queue or a schedule",
	}

	itemCmd.AddCommand(newItemAddCommand(ctx))
	itemCmd.AddCommand(newItemUpdateCommand(ctx))
	itemCmd.AddCommand(newItemRemoveCommand(ctx))
	itemCmd.AddCommand(newItemReorderCommand(ctx))

	return itemCmd
}

// targetCollection resolves the --schedule flag, defaulting to the queue.
func targetCollection(cmd *cobra.Command, st *store.Store, scheduleID int64) (int64, error) {
	if scheduleID > 0 {
		schedule, err := st.GetCollection(cmd.Context(), scheduleID)
		if err != nil {
			return 0, err
		}
		return schedule.ID, nil
	}
	queue, err := st.QueueCollection(cmd.Context())
	if err != nil {
		return 0, err
	}
	return queue.ID, nil
}

func newItemAddCommand(ctx *commandContext) *cobra.Command {
	var scheduleID int64
	var afterID int64

	cmd := &cobra.Command{
		Use:   "add <line>",
		Short: "Add an item from a program line, e.g. 'Amazing Grace [S]' or 'John 3:16 [V]'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			built, err := linePayload(cmd, ctx, st, args[0])
			if err != nil {
				return err
			}

			collectionID, err := targetCollection(cmd, st, scheduleID)
			if err != nil {
				return err
			}

			svc := ctx.collectionService(st)
			var anchor *int64
			if afterID > 0 {
				anchor = &afterID
			}
			inserted, err := svc.InsertAfter(cmd.Context(), collectionID, anchor, built.Payloads[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %d at position %d\n", inserted.ID, inserted.Position)
			return nil
		},
	}

	cmd.Flags().Int64Var(&scheduleID, "schedule", 0, "Target schedule id (defaults to the queue)")
	cmd.Flags().Int64Var(&afterID, "after", 0, "Insert after this item id (defaults to the end)")
	return cmd
}

// linePayload parses a single program line into one payload, running the
// song-resolution pass against the catalog.
func linePayload(cmd *cobra.Command, ctx *commandContext, st *store.Store, line string) (built *transcode.BuildResult, err error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}

	parsed := transcode.ParseText(line)
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("%s", parsed.Errors[0].Reason)
	}
	if len(parsed.Lines) != 1 {
		return nil, fmt.Errorf("expected exactly one program line")
	}

	resolution, err := transcode.ResolveSongs(cmd.Context(), st, parsed.Lines)
	if err != nil {
		return nil, err
	}
	if len(resolution.Unresolved) > 0 {
		return nil, services.Wrap(services.ErrUnresolved, "item", "add",
			fmt.Sprintf("no catalog match for song %q (try 'lectern song list')", resolution.Unresolved[0].Title), nil)
	}

	translation := cfg.Presentation.DefaultTranslation
	built = transcode.BuildPayloads(parsed.Lines, resolution, translation, translationAbbrev(cmd, st, translation))
	if len(built.Skipped) > 0 {
		return nil, fmt.Errorf("%s", built.Skipped[0].Reason)
	}
	return built, nil
}

func newItemUpdateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update <item-id> <line>",
		Short: "Replace an item's content from a program line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			built, err := linePayload(cmd, ctx, st, args[1])
			if err != nil {
				return err
			}
			updated, err := ctx.collectionService(st).Update(cmd.Context(), itemID, built.Payloads[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated item %d\n", updated.ID)
			return nil
		},
	}
}

func translationAbbrev(cmd *cobra.Command, st *store.Store, translationID string) string {
	translation, err := st.GetTranslation(cmd.Context(), translationID)
	if err != nil || translation == nil {
		return strings.ToUpper(translationID)
	}
	return translation.Abbrev
}

func newItemRemoveCommand(ctx *commandContext) *cobra.Command {
	var scheduleID int64

	cmd := &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			collectionID, err := targetCollection(cmd, st, scheduleID)
			if err != nil {
				return err
			}
			if err := ctx.collectionService(st).Remove(cmd.Context(), collectionID, itemID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d\n", itemID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&scheduleID, "schedule", 0, "Target schedule id (defaults to the queue)")
	return cmd
}

func newItemReorderCommand(ctx *commandContext) *cobra.Command {
	var scheduleID int64

	cmd := &cobra.Command{
		Use:   "reorder <id,id,...>",
		Short: "Reorder a collection; the list must name every item exactly once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var orderedIDs []int64
			for _, part := range strings.Split(args[0], ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				id, err := strconv.ParseInt(part, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q", part)
				}
				orderedIDs = append(orderedIDs, id)
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			collectionID, err := targetCollection(cmd, st, scheduleID)
			if err != nil {
				return err
			}
			if err := ctx.collectionService(st).Reorder(cmd.Context(), collectionID, orderedIDs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d items\n", len(orderedIDs))
			return nil
		},
	}

	cmd.Flags().Int64Var(&scheduleID, "schedule", 0, "Target schedule id (defaults to the queue)")
	return cmd
}

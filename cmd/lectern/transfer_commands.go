package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lectern/internal/collection"
	"lectern/internal/item"
	"lectern/internal/resolve"
	"lectern/internal/store"
	"lectern/internal/transcode"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a program from a file",
	}

	importCmd.AddCommand(newImportTextCommand(ctx))
	importCmd.AddCommand(newImportJSONCommand(ctx))

	return importCmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a program to text or a .churchprogram document",
	}

	exportCmd.AddCommand(newExportTextCommand(ctx))
	exportCmd.AddCommand(newExportJSONCommand(ctx))

	return exportCmd
}

// scheduleTitleFromFile derives a human schedule title from a filename,
// e.g. "sunday-morning_2026-03-01.txt" becomes "Sunday Morning 2026-03-01".
func scheduleTitleFromFile(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	return cases.Title(language.English, cases.NoLower).String(base)
}

// importTarget resolves where imported items go: an existing schedule, a
// schedule created from the filename, or the queue.
func importTarget(cmd *cobra.Command, st *store.Store, scheduleID int64, asSchedule bool, path string) (int64, error) {
	if scheduleID > 0 && asSchedule {
		return 0, fmt.Errorf("--schedule and --as-schedule are mutually exclusive")
	}
	if asSchedule {
		schedule, err := st.CreateSchedule(cmd.Context(), scheduleTitleFromFile(path), "")
		if err != nil {
			return 0, err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created schedule %d: %s\n", schedule.ID, schedule.Title)
		return schedule.ID, nil
	}
	return targetCollection(cmd, st, scheduleID)
}

func reportReplace(cmd *cobra.Command, result *collection.ReplaceResult, lineNumbers []int, skipped []transcode.Skip) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d items\n", len(result.Inserted))
	for _, skip := range skipped {
		fmt.Fprintf(out, "  skipped line %d: %s\n", skip.LineNumber, skip.Reason)
	}
	for _, skip := range result.Skipped {
		line := skip.Index
		if skip.Index < len(lineNumbers) {
			line = lineNumbers[skip.Index]
		}
		fmt.Fprintf(out, "  skipped line %d: %s\n", line, skip.Reason)
	}
	if !result.Success {
		fmt.Fprintln(out, "No items were imported")
	}
}

func newImportTextCommand(ctx *commandContext) *cobra.Command {
	var scheduleID int64
	var asSchedule bool
	var translation string

	cmd := &cobra.Command{
		Use:   "text <file>",
		Short: "Import a line-oriented program file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read program file: %w", err)
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			parsed := transcode.ParseText(string(data))
			for _, lineErr := range parsed.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  bad line %d: %s\n", lineErr.Number, lineErr.Reason)
			}

			resolution, err := transcode.ResolveSongs(cmd.Context(), st, parsed.Lines)
			if err != nil {
				return err
			}
			for _, unresolved := range resolution.Unresolved {
				fmt.Fprintf(cmd.OutOrStdout(), "  unmatched song on line %d: %q\n", unresolved.LineNumber, unresolved.Title)
			}

			if translation == "" {
				translation = cfg.Presentation.DefaultTranslation
			}
			built := transcode.BuildPayloads(parsed.Lines, resolution, translation, translationAbbrev(cmd, st, translation))

			collectionID, err := importTarget(cmd, st, scheduleID, asSchedule, args[0])
			if err != nil {
				return err
			}
			result, err := ctx.collectionService(st).ReplaceAll(cmd.Context(), collectionID, built.Payloads)
			if err != nil {
				return err
			}
			reportReplace(cmd, result, built.LineNumbers, built.Skipped)
			return nil
		},
	}

	cmd.Flags().Int64Var(&scheduleID, "schedule", 0, "Replace the items of this schedule id")
	cmd.Flags().BoolVar(&asSchedule, "as-schedule", false, "Create a schedule named after the file")
	cmd.Flags().StringVar(&translation, "translation", "", "Bible translation for passage lines")
	return cmd
}

func newImportJSONCommand(ctx *commandContext) *cobra.Command {
	var scheduleID int64
	var asSchedule bool
	var createSongs bool

	cmd := &cobra.Command{
		Use:   "json <file>",
		Short: "Import a .churchprogram document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			doc, err := transcode.ParseJSON(data)
			if err != nil {
				return err
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			matched, unresolved, err := transcode.ResolveDocumentSongs(cmd.Context(), st, doc)
			if err != nil {
				return err
			}
			if createSongs && len(unresolved) > 0 {
				for _, index := range unresolved {
					song, err := st.CreateSong(cmd.Context(), transcode.SongFromDocument(doc.Items[index].Song))
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Created song %d: %s\n", song.ID, song.Title)
				}
				matched, unresolved, err = transcode.ResolveDocumentSongs(cmd.Context(), st, doc)
				if err != nil {
					return err
				}
			}
			for _, index := range unresolved {
				fmt.Fprintf(cmd.OutOrStdout(), "  unmatched song in item %d: %q\n", index, doc.Items[index].Song.Title)
			}

			built := transcode.DocumentPayloads(doc, matched)

			collectionID, err := importTarget(cmd, st, scheduleID, asSchedule, args[0])
			if err != nil {
				return err
			}
			if asSchedule && doc.Schedule.Title != "" {
				if err := st.UpdateSchedule(cmd.Context(), collectionID, doc.Schedule.Title, doc.Schedule.Description); err != nil {
					return err
				}
			}
			result, err := ctx.collectionService(st).ReplaceAll(cmd.Context(), collectionID, built.Payloads)
			if err != nil {
				return err
			}
			reportReplace(cmd, result, built.LineNumbers, built.Skipped)
			return nil
		},
	}

	cmd.Flags().Int64Var(&scheduleID, "schedule", 0, "Replace the items of this schedule id")
	cmd.Flags().BoolVar(&asSchedule, "as-schedule", false, "Create a schedule for the document")
	cmd.Flags().BoolVar(&createSongs, "create-songs", true, "Create missing songs from embedded snapshots")
	return cmd
}

func exportResolved(cmd *cobra.Command, ctx *commandContext, st *store.Store, scheduleID int64) (*item.Collection, []*resolve.ResolvedItem, error) {
	collectionID, err := targetCollection(cmd, st, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.GetCollection(cmd.Context(), collectionID)
	if err != nil {
		return nil, nil, err
	}
	items, err := ctx.collectionService(st).Items(cmd.Context(), collectionID)
	if err != nil {
		return nil, nil, err
	}
	resolved, err := ctx.resolver(st).ResolveAll(cmd.Context(), items)
	if err != nil {
		return nil, nil, err
	}
	return meta, resolved, nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return file, file.Close, nil
}

func newExportTextCommand(ctx *commandContext) *cobra.Command {
	var scheduleID int64
	var outputPath string

	cmd := &cobra.Command{
		Use:   "text",
		Short: "Export a program as text lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			_, resolved, err := exportResolved(cmd, ctx, st, scheduleID)
			if err != nil {
				return err
			}
			out, closeOut, err := openOutput(cmd, outputPath)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(out, transcode.ExportText(resolved)); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}

	cmd.Flags().Int64Var(&scheduleID, "schedule", 0, "Export this schedule id (defaults to the queue)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (defaults to stdout)")
	return cmd
}

func newExportJSONCommand(ctx *commandContext) *cobra.Command {
	var scheduleID int64
	var outputPath string

	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export a program as a .churchprogram document",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			meta, resolved, err := exportResolved(cmd, ctx, st, scheduleID)
			if err != nil {
				return err
			}
			doc := transcode.ExportJSON(transcode.ScheduleHeader{
				Title:       meta.Title,
				Description: meta.Description,
			}, resolved)

			out, closeOut, err := openOutput(cmd, outputPath)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(doc); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}

	cmd.Flags().Int64Var(&scheduleID, "schedule", 0, "Export this schedule id (defaults to the queue)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (defaults to stdout)")
	return cmd
}

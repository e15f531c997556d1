package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/store"
)

func newBibleCommand(ctx *commandContext) *cobra.Command {
	bibleCmd := &cobra.Command{
		Use:   "bible",
		Short: "Manage Bible translations",
	}

	bibleCmd.AddCommand(newBibleLoadCommand(ctx))
	bibleCmd.AddCommand(newBibleListCommand(ctx))

	return bibleCmd
}

// bibleVerseFile is the verse dump format: a JSON array of verse rows.
type bibleVerseFile []struct {
	BookCode string `json:"bookCode"`
	Chapter  int    `json:"chapter"`
	Verse    int    `json:"verse"`
	Text     string `json:"text"`
}

func newBibleLoadCommand(ctx *commandContext) *cobra.Command {
	var name string
	var abbrev string

	cmd := &cobra.Command{
		Use:   "load <translation-id> <verses-file>",
		Short: "Load a translation from a JSON verse dump",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			translationID := strings.ToLower(strings.TrimSpace(args[0]))
			if translationID == "" {
				return fmt.Errorf("translation id is required")
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read verses file: %w", err)
			}
			var file bibleVerseFile
			if err := json.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("parse verses file: %w", err)
			}
			if len(file) == 0 {
				return fmt.Errorf("verses file is empty")
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if abbrev == "" {
				abbrev = strings.ToUpper(translationID)
			}
			if name == "" {
				name = abbrev
			}
			if err := st.SeedTranslation(cmd.Context(), store.Translation{
				ID:     translationID,
				Name:   name,
				Abbrev: abbrev,
			}); err != nil {
				return err
			}

			verses := make([]store.Verse, 0, len(file))
			for _, row := range file {
				verses = append(verses, store.Verse{
					BookCode: row.BookCode,
					Chapter:  row.Chapter,
					Verse:    row.Verse,
					Text:     row.Text,
				})
			}
			if err := st.ImportVerses(cmd.Context(), translationID, verses); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d verses into %s\n", len(verses), translationID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Translation display name")
	cmd.Flags().StringVar(&abbrev, "abbrev", "", "Translation abbreviation")
	return cmd
}

func newBibleListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded translations",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			translations, err := st.Translations(cmd.Context())
			if err != nil {
				return err
			}
			if len(translations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No translations loaded")
				return nil
			}

			rows := make([][]string, 0, len(translations))
			for _, t := range translations {
				rows = append(rows, []string{t.ID, t.Abbrev, t.Name, strconv.Itoa(t.VerseCount)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Abbrev", "Name", "Verses"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

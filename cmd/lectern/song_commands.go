package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/songs"
)

func newSongCommand(ctx *commandContext) *cobra.Command {
	songCmd := &cobra.Command{
		Use:   "song",
		Short: "Manage the song catalog",
	}

	songCmd.AddCommand(newSongListCommand(ctx))
	songCmd.AddCommand(newSongAddCommand(ctx))
	songCmd.AddCommand(newSongDeleteCommand(ctx))

	return songCmd
}

func newSongListCommand(ctx *commandContext) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog songs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			var list []*songs.Song
			if query != "" {
				list, err = st.Search(cmd.Context(), query)
			} else {
				list, err = st.Songs(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No songs")
				return nil
			}

			rows := make([][]string, 0, len(list))
			for _, song := range list {
				repeat := ""
				if song.RepeatChorus {
					repeat = "yes"
				}
				rows = append(rows, []string{
					strconv.FormatInt(song.ID, 10),
					song.Title,
					song.Author,
					strconv.Itoa(len(song.Slides)),
					repeat,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Author", "Slides", "Repeat chorus"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "Filter by title substring")
	return cmd
}

func newSongAddCommand(ctx *commandContext) *cobra.Command {
	var author string
	var repeatChorus bool

	cmd := &cobra.Command{
		Use:   "add <title> <lyrics-file>",
		Short: "Add a song from a lyrics file",
		Long: `Add a song from a plain-text lyrics file. Stanzas are separated by blank
lines. A stanza whose first line is "Chorus:", "Bridge:" or "Tag:" takes
that kind; everything else is a verse.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read lyrics file: %w", err)
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			song := &songs.Song{
				Title:        args[0],
				Author:       author,
				RepeatChorus: repeatChorus,
				Slides:       parseLyrics(string(data)),
			}
			if len(song.Slides) == 0 {
				return fmt.Errorf("lyrics file has no stanzas")
			}

			created, err := st.CreateSong(cmd.Context(), song)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created song %d: %s (%d slides)\n", created.ID, created.Title, len(created.Slides))
			return nil
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Song author")
	cmd.Flags().BoolVar(&repeatChorus, "repeat-chorus", true, "Repeat the chorus after each verse when presenting")
	return cmd
}

// parseLyrics splits lyrics into slides on blank lines. A "Chorus:" style
// first line sets the slide kind and is dropped from the content.
func parseLyrics(input string) []songs.Slide {
	var slides []songs.Slide
	for _, stanza := range strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n\n") {
		stanza = strings.TrimSpace(stanza)
		if stanza == "" {
			continue
		}

		kind := songs.SlideVerse
		lines := strings.SplitN(stanza, "\n", 2)
		switch strings.ToLower(strings.TrimSpace(lines[0])) {
		case "chorus:":
			kind = songs.SlideChorus
		case "bridge:":
			kind = songs.SlideBridge
		case "tag:":
			kind = songs.SlideTag
		}
		if kind != songs.SlideVerse {
			if len(lines) < 2 {
				continue
			}
			stanza = strings.TrimSpace(lines[1])
		}

		slides = append(slides, songs.Slide{
			Kind:      kind,
			Content:   stanza,
			SortOrder: len(slides),
		})
	}
	return slides
}

func newSongDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a song from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid song id %q", args[0])
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			removed, err := st.DeleteSong(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("song %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted song %d\n", id)
			fmt.Fprintln(cmd.OutOrStdout(), "Existing items referencing it will show missing content")
			return nil
		},
	}
}

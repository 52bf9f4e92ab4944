package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abelbrown/flick/internal/store"
	"github.com/abelbrown/flick/internal/topics"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Preferences and tallies as CSV",
	Long:  `Writes one row per catalog topic: whether it is selected and its accepted/rejected tally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if path, _ := cmd.Flags().GetString("out"); path != "" {
			return exportFile(cmd.Context(), st, path)
		}
		return exportCSV(cmd.Context(), st, cmd.OutOrStdout())
	},
}

// createFile opens the export destination.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// exportFile writes the CSV to path. A failed close fails the export.
func exportFile(ctx context.Context, st *store.Store, path string) (err error) {
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return exportCSV(ctx, st, f)
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func exportCSV(ctx context.Context, st *store.Store, out io.Writer) error {
	saved, err := st.LoadPreferences(ctx)
	if err != nil {
		return err
	}
	tallies, err := st.Tallies(ctx)
	if err != nil {
		return err
	}

	selected := make(map[string]bool, len(saved))
	for _, k := range saved {
		selected[k] = true
	}
	byTopic := make(map[string]store.Tally, len(tallies))
	for _, t := range tallies {
		byTopic[t.Topic] = t
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"topic", "name", "selected", "accepted", "rejected"}); err != nil {
		return err
	}
	for _, t := range topics.All() {
		tally := byTopic[t.Key]
		row := []string{
			t.Key,
			t.Name,
			strconv.FormatBool(selected[t.Key]),
			strconv.Itoa(tally.Accepted),
			strconv.Itoa(tally.Rejected),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

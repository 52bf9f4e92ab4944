package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abelbrown/flick/internal/session"
	"github.com/abelbrown/flick/internal/topics"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show saved topics",
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

		saved, err := st.LoadPreferences(cmd.Context())
		if err != nil {
			return err
		}
		selected := make(map[string]bool, len(saved))
		for _, k := range saved {
			selected[k] = true
		}

		out := cmd.OutOrStdout()
		for _, t := range topics.All() {
			mark := " "
			if selected[t.Key] {
				mark = "x"
			}
			fmt.Fprintf(out, "[%s] %-12s %s %s\n", mark, t.Key, t.Glyph, t.Name)
		}
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <topic>...",
	Short: "Save topics",
	Long:  "Replaces the saved topics. Valid keys: " + strings.Join(topics.Keys(), ", "),
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := session.Validate(args)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SavePreferences(cmd.Context(), sel); err != nil {
			return fmt.Errorf("%w: %w", session.ErrSavePreferences, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", strings.Join(sel, ", "))
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}

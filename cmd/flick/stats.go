package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Engagement and swipe totals",
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

		totals, err := st.Stats()
		if err != nil {
			return err
		}
		tallies, err := st.Tallies(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database:     %s\n", cfg.DBPath())
		fmt.Fprintf(out, "Items:        %d engaged, %d views\n", totals.EngagedItems, totals.TotalViews)
		fmt.Fprintf(out, "Engagement:   %d approvals, %d disapprovals\n", totals.TotalApprovals, totals.TotalDisapprovals)
		fmt.Fprintf(out, "Swipes:       %d accepted, %d rejected\n", totals.TotalAccepted, totals.TotalRejected)
		fmt.Fprintf(out, "Topics saved: %d\n", totals.Preferences)

		if len(tallies) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tACCEPTED\tREJECTED")
		for _, t := range tallies {
			fmt.Fprintf(w, "%s\t%d\t%d\n", t.Topic, t.Accepted, t.Rejected)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

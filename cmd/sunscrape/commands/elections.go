package commands

import (
	"fmt"
	"sunscrape/internal/scrapers/campaignfinance"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var electionSource *string

func init() {
	electionSource = electionsCmd.Flags().String("source", "contributions", "Where to list elections from: contributions (search form) or candidates (candidate list download).")
	rootCmd.AddCommand(electionsCmd)
	rootCmd.AddCommand(committeeTypesCmd)
}

var electionsCmd = &cobra.Command{
	Use:   "elections",
	Short: "Lists the election ids accepted by the search and download commands.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var elections []campaignfinance.ElectionEntry
		var err error
		switch *electionSource {
		case "contributions":
			elections, err = env.scraper.ElectionIDs(cmd.Context())
		case "candidates":
			elections, err = env.scraper.AvailableElections(cmd.Context())
		default:
			return fmt.Errorf("unknown source %q, expected contributions or candidates", *electionSource)
		}
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Id", "Election"})
		for _, e := range elections {
			t.AppendRow(table.Row{e.Id, e.Label})
		}
		t.Render()
		return nil
	},
}

var committeeTypesCmd = &cobra.Command{
	Use:   "committee-types",
	Short: "Lists the committee type codes of the search forms.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := env.scraper.CommitteeTypes(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Code", "Type"})
		for _, ct := range types {
			t.AppendRow(table.Row{ct.Code, ct.Label})
		}
		t.Render()
		return nil
	},
}

package commands

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sunscrape/internal/scrapers/campaignfinance"
	"sunscrape/internal/store"

	"github.com/spf13/cobra"
)

var committeeResultType *string
var committeeDetailsOnly *bool
var committeeOutput outputFlags

func init() {
	committeeResultType = committeeCmd.Flags().StringP("type", "t", string(campaignfinance.CommitteeContributions), "The records to fetch: contributions or expenditures.")
	committeeDetailsOnly = committeeCmd.Flags().Bool("details-only", false, "Only print the committee's registration.")
	committeeOutput = addOutputFlags(committeeCmd)
	rootCmd.AddCommand(committeeCmd)
}

var committeeCmd = &cobra.Command{
	Use:   "committee <name>",
	Short: "Looks up a committee by name and fetches its registration and reports.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := committeeOutput.validate()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		name := strings.Join(args, " ")

		if *committeeDetailsOnly {
			match, err := env.scraper.FindCommittee(ctx, name)
			if err != nil {
				return err
			}
			details, err := env.scraper.CommitteeDetails(ctx, match.Account)
			if err != nil {
				return err
			}
			return emitDetails(cmd, details)
		}

		resultType, err := campaignfinance.ParseCommitteeResultType(*committeeResultType)
		if err != nil {
			return err
		}
		result, err := env.scraper.Committee(ctx, name, resultType)
		if result.Details.Account == "" {
			return err
		}
		emitErr := emitDetails(cmd, result.Details)

		label := "committee " + result.Details.Name
		switch result.ResultType {
		case campaignfinance.CommitteeContributions:
			emitErr = errors.Join(emitErr, emit(cmd, committeeOutput, label, result.Contributions))
		case campaignfinance.CommitteeExpenditures:
			emitErr = errors.Join(emitErr, emit(cmd, committeeOutput, label, result.Expenditures))
		}
		return errors.Join(err, emitErr)
	},
}

func emitDetails(cmd *cobra.Command, details campaignfinance.CommitteeDetails) error {
	switch *committeeOutput.format {
	case formatCsv:
		path := filepath.Join(env.config.OutputDir, details.DefaultFileName(env.clock))
		_, err := details.Save(path, env.clock)
		if err != nil {
			return err
		}
		slog.Info("wrote committee details", "path", path)
		return nil
	case formatSqlite:
		database, err := store.Open(cmd.Context(), committeeOutput.databasePath())
		if err != nil {
			return err
		}
		defer database.Close()
		return store.NewStore(database, env.clock).SaveCommittee(cmd.Context(), details)
	}

	t := newTable(cmd.OutOrStdout())
	header := details.Header()
	values := details.Values()
	for i := range header {
		t.AppendRow(toRow([]string{header[i], values[i]}))
	}
	t.Render()
	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sunscrape/internal/scrapers/campaignfinance"

	"github.com/spf13/cobra"
)

type criteriaFlags struct {
	candidateFirst   *string
	candidateLast    *string
	committee        *string
	from             *string
	to               *string
	election         *string
	allTime          *bool
	contributorFirst *string
	contributorLast  *string
}

func addCriteriaFlags(cmd *cobra.Command, contributor bool) criteriaFlags {
	flags := criteriaFlags{
		candidateFirst: cmd.Flags().String("candidate-first", "", "The candidate's first name."),
		candidateLast:  cmd.Flags().String("candidate-last", "", "The candidate's last name."),
		committee:      cmd.Flags().String("committee", "", "A partial committee name."),
		election:       cmd.Flags().String("election", "", "An election id, see the elections command."),
	}
	if contributor {
		flags.from = cmd.Flags().String("from", "", "The first date of the range (MM/DD/YYYY or YYYY-MM-DD).")
		flags.to = cmd.Flags().String("to", "", "The last date of the range (MM/DD/YYYY or YYYY-MM-DD).")
		flags.allTime = cmd.Flags().Bool("all-time", false, "Search every date, overrides --from and --to.")
		flags.contributorFirst = cmd.Flags().String("contributor-first", "", "The contributor's first name.")
		flags.contributorLast = cmd.Flags().String("contributor-last", "", "The contributor's last name.")
	}
	return flags
}

func value[T any](ptr *T) T {
	var zero T
	if ptr == nil {
		return zero
	}
	return *ptr
}

func (f criteriaFlags) criteria() campaignfinance.SearchCriteria {
	return campaignfinance.SearchCriteria{
		CandidateFirst:   value(f.candidateFirst),
		CandidateLast:    value(f.candidateLast),
		CommitteeName:    value(f.committee),
		From:             value(f.from),
		To:               value(f.to),
		ElectionID:       value(f.election),
		AllTime:          value(f.allTime),
		ContributorFirst: value(f.contributorFirst),
		ContributorLast:  value(f.contributorLast),
	}
}

// label describes a search for stored results.
func label(ft campaignfinance.FilingType, criteria campaignfinance.SearchCriteria) string {
	var parts []string
	add := func(name, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", name, value))
		}
	}
	add("candidate", strings.TrimSpace(criteria.CandidateFirst+" "+criteria.CandidateLast))
	add("committee", criteria.CommitteeName)
	add("election", criteria.ElectionID)
	add("from", criteria.From)
	add("to", criteria.To)
	add("contributor", strings.TrimSpace(criteria.ContributorFirst+" "+criteria.ContributorLast))
	if criteria.AllTime {
		parts = append(parts, "all-time")
	}
	if len(parts) == 0 {
		return ft.String()
	}
	return ft.String() + " " + strings.Join(parts, " ")
}

// searchCommand builds the subcommand of one filing type. Partial results
// are still written when a later page fails, the error is returned after.
func searchCommand[T campaignfinance.Record](
	ft campaignfinance.FilingType,
	short string,
	run func(context.Context, campaignfinance.SearchCriteria) (campaignfinance.ResultSet[T], error),
) *cobra.Command {
	var criteria criteriaFlags
	var output outputFlags

	cmd := &cobra.Command{
		Use:   ft.String(),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := output.validate()
			if err != nil {
				return err
			}
			c := criteria.criteria()
			rs, err := run(cmd.Context(), c)
			if err != nil && rs.Len() == 0 {
				return err
			}
			return errors.Join(err, emit(cmd, output, label(ft, c), rs))
		},
	}
	criteria = addCriteriaFlags(cmd, ft == campaignfinance.Contributions)
	output = addOutputFlags(cmd)
	return cmd
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Searches the campaign finance filings.",
}

func init() {
	searchCmd.AddCommand(
		searchCommand(
			campaignfinance.Contributions,
			"Searches contributions received by candidates and committees.",
			func(ctx context.Context, c campaignfinance.SearchCriteria) (campaignfinance.ResultSet[campaignfinance.Contribution], error) {
				return env.scraper.Contributions(ctx, c)
			},
		),
		searchCommand(
			campaignfinance.Expenditures,
			"Searches expenditures made by candidates and committees.",
			func(ctx context.Context, c campaignfinance.SearchCriteria) (campaignfinance.ResultSet[campaignfinance.Expenditure], error) {
				return env.scraper.Expenditures(ctx, c)
			},
		),
		searchCommand(
			campaignfinance.Transfers,
			"Searches fund transfers between candidates and committees.",
			func(ctx context.Context, c campaignfinance.SearchCriteria) (campaignfinance.ResultSet[campaignfinance.Transfer], error) {
				return env.scraper.Transfers(ctx, c)
			},
		),
	)
	rootCmd.AddCommand(searchCmd)
}

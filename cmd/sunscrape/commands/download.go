package commands

import (
	"fmt"
	"sunscrape/internal/scrapers/campaignfinance"

	"github.com/spf13/cobra"
)

type candidateFlags struct {
	office        *string
	status        *string
	candidateType *string
	out           *string
}

func addCandidateFlags(cmd *cobra.Command) candidateFlags {
	return candidateFlags{
		office:        cmd.Flags().String("office", "All", "The office to list candidates for."),
		status:        cmd.Flags().String("status", "All", "The candidate status to list."),
		candidateType: cmd.Flags().String("type", "State Candidates", "State Candidates or Local Candidates."),
		out:           cmd.Flags().StringP("out", "o", "", "The csv file to write, defaults to a timestamped name in the output directory."),
	}
}

func (f candidateFlags) download(election string) campaignfinance.CandidateDownload {
	return campaignfinance.CandidateDownload{
		ElectionID:    election,
		Office:        *f.office,
		Status:        *f.status,
		CandidateType: *f.candidateType,
	}
}

var committeesOut *string
var candidatesElection *string
var candidatesFlags candidateFlags
var allElections *[]string
var allFlags candidateFlags

func init() {
	committeesOut = downloadCommitteesCmd.Flags().StringP("out", "o", "", "The csv file to write, defaults to a timestamped name in the output directory.")

	candidatesElection = downloadCandidatesCmd.Flags().String("election", "", "The election id, defaults to the most recent election.")
	candidatesFlags = addCandidateFlags(downloadCandidatesCmd)

	allElections = downloadAllCmd.Flags().StringSlice("election", nil, "The election ids to merge, defaults to every available election.")
	allFlags = addCandidateFlags(downloadAllCmd)

	downloadCmd.AddCommand(downloadCommitteesCmd, downloadCandidatesCmd, downloadAllCmd)
	rootCmd.AddCommand(downloadCmd)
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Downloads the bulk committee and candidate lists as csv.",
}

var downloadCommitteesCmd = &cobra.Command{
	Use:   "committees",
	Short: "Downloads the list of active committees.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := env.scraper.DownloadActiveCommittees(cmd.Context(), *committeesOut)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var downloadCandidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Downloads the candidate list of one election.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := env.scraper.DownloadCandidates(cmd.Context(), candidatesFlags.download(*candidatesElection), *candidatesFlags.out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var downloadAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Downloads and merges the candidate lists of many elections.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := env.scraper.DownloadAllCandidates(cmd.Context(), allFlags.download(""), *allElections, *allFlags.out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

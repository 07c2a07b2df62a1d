package commands

import (
	"fmt"
	"strconv"
	"sunscrape/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyDb *string

func init() {
	historyDb = historyCmd.PersistentFlags().String("db", "", "The sqlite database, defaults to the configured database.")
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory(cmd *cobra.Command) (store.Store, func() error, error) {
	path := *historyDb
	if path == "" {
		path = env.config.DatabasePath()
	}
	database, err := store.Open(cmd.Context(), path)
	if err != nil {
		return store.Store{}, nil, err
	}
	return store.NewStore(database, env.clock), database.Close, nil
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Lists the result sets stored by the sqlite output format.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeDb, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer closeDb()

		queries, err := s.Queries(cmd.Context())
		if err != nil {
			return err
		}
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Id", "Type", "Search", "Fetched", "Records", "Skipped", "Pages"})
		for _, q := range queries {
			t.AppendRow(table.Row{
				q.Id, q.RecordType, q.Label, q.FetchedAt.Format("2006-01-02 15:04:05"),
				q.Records, q.Skipped, q.Pages,
			})
		}
		t.Render()
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Deletes a stored result set.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		s, closeDb, err := openHistory(cmd)
		if err != nil {
			return err
		}
		defer closeDb()
		return s.DeleteQuery(cmd.Context(), id)
	},
}

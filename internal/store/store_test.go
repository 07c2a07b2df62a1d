package store

import (
	"context"
	"path/filepath"
	"sunscrape/internal/components/chrono"
	"sunscrape/internal/lookup"
	"sunscrape/internal/scrapers/campaignfinance"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var fixedClock = chrono.FixedTime{Time: time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)}

func setup(t testing.TB) Store {
	database, err := Open(context.Background(), filepath.Join(t.TempDir(), "sunscrape.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return NewStore(database, fixedClock)
}

func TestSaveAndLoad(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	rs := campaignfinance.ResultSet[campaignfinance.Contribution]{
		Records: []campaignfinance.Contribution{
			{Recipient: "DeSantis, Ron", RecipientParty: "Republican", Date: "2018-07-18", Amount: 1200.5, ContributorName: "SMITH, JOHN A"},
			{Recipient: "Gillum, Andrew", RecipientParty: "Democrat", Date: "", Amount: -25, ContributorName: "DOE, JANE"},
		},
		Skipped: 1,
		Pages:   2,
	}
	matches := []lookup.Match{
		{EntityType: lookup.EntityCandidate, Account: "70001", Name: "DeSantis, Ron"},
		{},
	}

	id, err := Save(ctx, s, "governor 2018", rs, matches)
	require.NoError(t, err)

	loaded, err := Load[campaignfinance.Contribution](ctx, s, id)
	require.NoError(t, err)
	diff := cmp.Diff(rs.Records, loaded)
	if diff != "" {
		t.Fatal(diff)
	}

	queries, err := s.Queries(ctx)
	require.NoError(t, err)
	require.Equal(t, []Query{{
		Id:         id,
		RecordType: "contributions",
		Label:      "governor 2018",
		FetchedAt:  fixedClock.Time,
		Pages:      2,
		Skipped:    1,
		Records:    2,
	}}, queries)

	var account string
	err = s.db.QueryRowContext(ctx, `select entity_account from result_record where query_id = ? and subject = ?`, id, "DeSantis, Ron").Scan(&account)
	require.NoError(t, err)
	require.Equal(t, "70001", account)
}

func TestLoadChecksRecordType(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	id, err := Save(ctx, s, "transfers", campaignfinance.ResultSet[campaignfinance.Transfer]{
		Records: []campaignfinance.Transfer{{TransferFrom: "Gillum, Andrew", Amount: 500}},
	}, nil)
	require.NoError(t, err)

	_, err = Load[campaignfinance.Expenditure](ctx, s, id)
	require.Error(t, err)
	_, err = Load[campaignfinance.Transfer](ctx, s, id+1)
	require.Error(t, err)
}

func TestSaveRejectsMismatchedMatches(t *testing.T) {
	s := setup(t)
	_, err := Save(context.Background(), s, "bad", campaignfinance.ResultSet[campaignfinance.Transfer]{
		Records: []campaignfinance.Transfer{{}, {}},
	}, []lookup.Match{{}})
	require.Error(t, err)

	queries, err := s.Queries(context.Background())
	require.NoError(t, err)
	require.Empty(t, queries)
}

func TestDeleteQuery(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	id, err := Save(ctx, s, "empty", campaignfinance.ResultSet[campaignfinance.Expenditure]{
		Records: []campaignfinance.Expenditure{{Spender: "A"}},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, s.DeleteQuery(ctx, id))

	queries, err := s.Queries(ctx)
	require.NoError(t, err)
	require.Empty(t, queries)

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, `select count(*) from result_record`).Scan(&n))
	require.Zero(t, n)
}

func TestCommittee(t *testing.T) {
	s := setup(t)
	ctx := context.Background()

	_, found, err := s.Committee(ctx, "70275")
	require.NoError(t, err)
	require.False(t, found)

	details := campaignfinance.CommitteeDetails{
		Account:    "70275",
		Name:       "FLORIDA CITIZEN VOTERS",
		Type:       "Political Committee (PCO)",
		Status:     "Active",
		Affiliates: []string{"REPUBLICAN PARTY OF FLORIDA", "FLORIDA CHAMBER PAC"},
	}
	require.NoError(t, s.SaveCommittee(ctx, details))
	details.Status = "Revoked"
	require.NoError(t, s.SaveCommittee(ctx, details))

	stored, found, err := s.Committee(ctx, "70275")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, details, stored)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sunscrape/internal/components/assert"
	"sunscrape/internal/components/chrono"
	"sunscrape/internal/lookup"
	"sunscrape/internal/scrapers/campaignfinance"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Open opens (creating if needed) the sqlite database at path and applies
// the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared
	database.SetMaxOpenConns(1)
	_, err = database.ExecContext(ctx, Schema)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return database, nil
}

// Store persists query results and committee registrations.
type Store struct {
	db    *sql.DB
	clock chrono.TimeAPI
}

func NewStore(database *sql.DB, clock chrono.TimeAPI) Store {
	assert.NotNil(database)
	assert.NotNil(clock)
	return Store{db: database, clock: clock}
}

// Query is a stored result set.
type Query struct {
	Id         int64
	RecordType string
	Label      string
	FetchedAt  time.Time
	Pages      int
	Skipped    int
	Records    int
}

// summary holds the fields every record type shares.
type summary struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Save stores a result set under label and returns its query id. matches may
// be nil, otherwise it must hold one match per record.
func Save[T campaignfinance.Record](ctx context.Context, s Store, label string, rs campaignfinance.ResultSet[T], matches []lookup.Match) (int64, error) {
	if matches != nil && len(matches) != len(rs.Records) {
		return 0, fmt.Errorf("save %s: %d matches for %d records", label, len(matches), len(rs.Records))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var zero T
	res, err := tx.ExecContext(
		ctx,
		`insert into result_set(record_type, label, fetched_at, pages, skipped) values (?, ?, ?, ?, ?)`,
		zero.RecordType().String(), label, s.clock.Now().Unix(), rs.Pages, rs.Skipped,
	)
	if err != nil {
		return 0, err
	}
	queryId, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(
		ctx,
		`insert into result_record(query_id, position, date, amount, subject, entity_type, entity_account, data)
		values (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	subjects := lookup.SubjectsOf(rs.Records)
	for i, record := range rs.Records {
		data, err := json.Marshal(record)
		if err != nil {
			return 0, err
		}
		var fields summary
		err = json.Unmarshal(data, &fields)
		if err != nil {
			return 0, err
		}

		var entityType, entityAccount sql.NullString
		if matches != nil && matches[i].Found() {
			entityType = sql.NullString{String: string(matches[i].EntityType), Valid: true}
			entityAccount = sql.NullString{String: matches[i].Account, Valid: true}
		}

		_, err = stmt.ExecContext(
			ctx,
			queryId, i, fields.Date, fields.Amount, subjects[i].Name,
			entityType, entityAccount, string(data),
		)
		if err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
	}

	return queryId, tx.Commit()
}

// Queries lists stored result sets, most recent first.
func (s Store) Queries(ctx context.Context) ([]Query, error) {
	rows, err := s.db.QueryContext(ctx, `
		select q.id, q.record_type, q.label, q.fetched_at, q.pages, q.skipped, count(r.position)
		from result_set q
		left join result_record r on r.query_id = q.id
		group by q.id
		order by q.id desc`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Query
	for rows.Next() {
		var q Query
		var fetchedAt int64
		err = rows.Scan(&q.Id, &q.RecordType, &q.Label, &fetchedAt, &q.Pages, &q.Skipped, &q.Records)
		if err != nil {
			return nil, err
		}
		q.FetchedAt = time.Unix(fetchedAt, 0).In(s.clock.Location())
		out = append(out, q)
	}
	return out, rows.Err()
}

// Load reads back the records of a stored result set in their original
// order. It fails if the query holds records of another type.
func Load[T campaignfinance.Record](ctx context.Context, s Store, queryId int64) ([]T, error) {
	var zero T
	var recordType string
	err := s.db.QueryRowContext(ctx, `select record_type from result_set where id = ?`, queryId).Scan(&recordType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query %d: not found", queryId)
	}
	if err != nil {
		return nil, err
	}
	if recordType != zero.RecordType().String() {
		return nil, fmt.Errorf("query %d: holds %s, not %s", queryId, recordType, zero.RecordType())
	}

	rows, err := s.db.QueryContext(ctx, `select data from result_record where query_id = ? order by position`, queryId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var data string
		err = rows.Scan(&data)
		if err != nil {
			return nil, err
		}
		var record T
		err = json.Unmarshal([]byte(data), &record)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// DeleteQuery removes a stored result set and its records.
func (s Store) DeleteQuery(ctx context.Context, queryId int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `delete from result_record where query_id = ?`, queryId)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `delete from result_set where id = ?`, queryId)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// SaveCommittee inserts or replaces a committee's registration.
func (s Store) SaveCommittee(ctx context.Context, details campaignfinance.CommitteeDetails) error {
	affiliates, err := json.Marshal(details.Affiliates)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`insert or replace into committee(
			account, name, type, status, address, phone, chair, treasurer,
			registered_agent, purpose, affiliates, fetched_at
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		details.Account, details.Name, details.Type, details.Status, details.Address,
		details.Phone, details.Chair, details.Treasurer, details.RegisteredAgent,
		details.Purpose, string(affiliates), s.clock.Now().Unix(),
	)
	return err
}

// Committee returns the stored registration of account, if any.
func (s Store) Committee(ctx context.Context, account string) (campaignfinance.CommitteeDetails, bool, error) {
	var details campaignfinance.CommitteeDetails
	var affiliates string
	err := s.db.QueryRowContext(
		ctx,
		`select account, name, type, status, address, phone, chair, treasurer,
			registered_agent, purpose, affiliates
		from committee where account = ?`,
		account,
	).Scan(
		&details.Account, &details.Name, &details.Type, &details.Status, &details.Address,
		&details.Phone, &details.Chair, &details.Treasurer, &details.RegisteredAgent,
		&details.Purpose, &affiliates,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return details, false, nil
	}
	if err != nil {
		return details, false, err
	}
	err = json.Unmarshal([]byte(affiliates), &details.Affiliates)
	if err != nil {
		return details, false, err
	}
	return details, true, nil
}

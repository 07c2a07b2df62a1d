package campaignfinance

import (
	"io"
	"sunscrape/internal/components/chrono"
)

func (rs ResultSet[T]) rows() [][]string {
	rows := make([][]string, len(rs.Records))
	for i, record := range rs.Records {
		rows[i] = record.Values()
	}
	return rows
}

func (rs ResultSet[T]) header() []string {
	var zero T
	return zero.Header()
}

func (rs ResultSet[T]) WriteCsv(w io.Writer) error {
	return writeCsv(w, rs.header(), rs.rows())
}

// DefaultFileName is {filing_type}_{YYYYMMDD}_{HHMMSS}.csv.
func (rs ResultSet[T]) DefaultFileName(clock chrono.TimeAPI) string {
	var zero T
	return zero.RecordType().String() + "_" + chrono.Stamp(clock.Now()) + ".csv"
}

// Save writes the records as csv to path, or to DefaultFileName when path is
// empty, and returns the path written.
func (rs ResultSet[T]) Save(path string, clock chrono.TimeAPI) (string, error) {
	if path == "" {
		path = rs.DefaultFileName(clock)
	}
	err := writeCsvFile(path, rs.header(), rs.rows())
	if err != nil {
		return "", err
	}
	return path, nil
}

func (d CommitteeDetails) DefaultFileName(clock chrono.TimeAPI) string {
	return "committee_" + safeFileName(d.Name) + "_" + chrono.Stamp(clock.Now()) + ".csv"
}

// Save writes the details as a single row csv to path, or to
// committee_{name}_{YYYYMMDD}_{HHMMSS}.csv when path is empty.
func (d CommitteeDetails) Save(path string, clock chrono.TimeAPI) (string, error) {
	if path == "" {
		path = d.DefaultFileName(clock)
	}
	err := writeCsvFile(path, d.Header(), [][]string{d.Values()})
	if err != nil {
		return "", err
	}
	return path, nil
}

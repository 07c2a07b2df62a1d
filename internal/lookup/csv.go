package lookup

import (
	"encoding/csv"
	"fmt"
	"io"
	"sunscrape/internal/scrapers/campaignfinance"
)

// WriteEnrichedCsv writes every record followed by the columns of its match.
func WriteEnrichedCsv[T campaignfinance.Record](w io.Writer, rs campaignfinance.ResultSet[T], matches []Match) error {
	if len(matches) != len(rs.Records) {
		return fmt.Errorf("enriched csv: %d matches for %d records", len(matches), len(rs.Records))
	}

	var zero T
	writer := csv.NewWriter(w)
	err := writer.Write(append(zero.Header(), Match{}.Header()...))
	if err != nil {
		return err
	}
	for i, record := range rs.Records {
		err = writer.Write(append(record.Values(), matches[i].Values()...))
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

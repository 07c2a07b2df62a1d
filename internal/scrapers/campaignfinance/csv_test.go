package campaignfinance

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultSetSave(t *testing.T) {
	rs := ResultSet[Transfer]{Records: []Transfer{{
		TransferFrom: "Gillum, Andrew",
		Date:         "2018-11-20",
		Amount:       -500,
		TransferTo:   "FLORIDA DEMOCRATIC PARTY",
	}}}

	dir := t.TempDir()
	chdir(t, dir)
	path, err := rs.Save("", fixedClock)
	require.NoError(t, err)
	require.Equal(t, "transfers_20240305_140709.csv", path)

	rows := readCsv(t, filepath.Join(dir, path))
	require.Equal(t, [][]string{
		Transfer{}.Header(),
		{"Gillum, Andrew", "", "2018-11-20", "-500.00", "FLORIDA DEMOCRATIC PARTY", "", "", "", ""},
	}, rows)

	explicit := filepath.Join(dir, "out.csv")
	path, err = rs.Save(explicit, fixedClock)
	require.NoError(t, err)
	require.Equal(t, explicit, path)
}

func TestEmptyResultSetWritesHeader(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, ResultSet[Contribution]{}.WriteCsv(&out))
	require.Equal(t,
		"recipient,recipient_party,date,amount,type,contributor_name,contributor_address,contributor_address2,contributor_occupation,inkind_description\n",
		out.String(),
	)
}

func TestSaveToMissingDirectoryFails(t *testing.T) {
	_, err := ResultSet[Expenditure]{}.Save(filepath.Join(t.TempDir(), "missing", "out.csv"), fixedClock)
	require.Error(t, err)
}

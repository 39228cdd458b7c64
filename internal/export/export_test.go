package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func exportLeads() []*model.Lead {
	lead := model.NewLead("bank_1", model.Company{
		Name:          "First National Bank",
		Industry:      model.IndustryBanking,
		Website:       "https://fnb.example.com",
		Location:      "Dallas, Texas",
		EmployeeCount: 1200,
	}, "banking")
	lead.CreatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	lead.Status = model.StatusQualified
	lead.AddSignal(model.SignalJobPosting)
	lead.AddSignal(model.SignalRFPPublished)
	lead.Score = &model.LeadScore{
		OverallScore: 80.5,
		FitScore:     90,
		IntentScore:  80,
		TimingScore:  70,
	}

	unscored := model.NewLead("gov_2", model.Company{
		Name:     "Treasury Department",
		Industry: model.IndustryGovernment,
	}, "government")

	return []*model.Lead{lead, unscored}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("excel")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("parquet")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, WriteCSV(exportLeads(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, columns, rows[0])
	assert.Equal(t, []string{
		"bank_1", "First National Bank", "banking", "https://fnb.example.com",
		"Dallas, Texas", "1200", "80.50", "90.00", "80.00", "70.00",
		"job_posting; rfp_published", "qualified", "2025-06-01T12:00:00Z",
	}, rows[1])

	// Unscored leads get empty score cells, not zeros.
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "", rows[2][5])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.json")
	require.NoError(t, WriteJSON(exportLeads(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []*model.Lead
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "bank_1", decoded[0].ID)
	require.NotNil(t, decoded[0].Score)
	assert.Equal(t, 80.5, decoded[0].Score.OverallScore)
	assert.Nil(t, decoded[1].Score)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	require.NoError(t, WriteXLSX(exportLeads(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Leads", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "id", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "bank_1", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "80.50", sheet.Rows[1].Cells[6].String())
}

func TestWriteDispatchesByFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.json")
	require.NoError(t, Write(exportLeads(), FormatJSON, path))

	_, err := os.Stat(path)
	assert.NoError(t, err)

	assert.Error(t, Write(exportLeads(), Format("parquet"), path))
}

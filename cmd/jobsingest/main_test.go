package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func saveWorkbook(t *testing.T, dir string, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(dir, "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := saveWorkbook(t, dir, map[string][][]interface{}{
		"jobs_like": {
			{"begin_checkpoint.actual_location_hexagon_id9", "begin_checkpoint.ata_utc", "begin_checkpoint.city_id", "marketplace"},
			{"8a2830800", "2024-01-01T10:15:00Z", 5, "UberX"},
		},
	})
	out := filepath.Join(dir, "nested", "out", "jobs_like.csv")

	code, stdout, stderr := runCLI(t, in, "--out", out, "--bucket-minutes", "60")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "OK: wrote 1 rows to "+out+"\n", stdout)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"city_id,zone,ts,user_type,jobs_like,source_sheet\n"+
			"5,8a2830800,2024-01-01T10:00:00Z,rides,1.0,jobs_like\n",
		string(content))
}

func TestRun_OnlyRidesTrips(t *testing.T) {
	dir := t.TempDir()
	in := saveWorkbook(t, dir, map[string][][]interface{}{
		"rides_trips": {
			{"city_id", "pickup_hex_id9", "drop_hex_id9", "start_time"},
			{3, "", "8a0000001", "2024-03-01 08:05:00"},
			{3, "8a0000002", "", "2024-03-01 08:20:00"},
			{3, "8a0000002", "", "2024-03-01 08:40:00"},
		},
	})
	out := filepath.Join(dir, "out.csv")

	code, stdout, stderr := runCLI(t, in, "--out", out, "--bucket-minutes", "30")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "OK: wrote 3 rows to "+out+"\n", stdout)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"city_id,zone,ts,user_type,jobs_like,source_sheet\n"+
			"3,8a0000001,2024-03-01T08:00:00Z,rides,1.0,rides_trips\n"+
			"3,8a0000002,2024-03-01T08:00:00Z,rides,1.0,rides_trips\n"+
			"3,8a0000002,2024-03-01T08:30:00Z,rides,1.0,rides_trips\n",
		string(content))
}

func TestRun_NoBucketing(t *testing.T) {
	dir := t.TempDir()
	in := saveWorkbook(t, dir, map[string][][]interface{}{
		"eats_orders": {
			{"city_id", "pickup_hex_id9", "start_time"},
			{4, "8a0000009", "2024-03-01 08:05:00"},
			{4, "8a0000009", "2024-03-01 08:05:00"},
		},
	})
	out := filepath.Join(dir, "out.csv")

	code, stdout, stderr := runCLI(t, in, "--out", out, "--bucket-minutes", "0")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "OK: wrote 2 rows to "+out+"\n", stdout)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "4,8a0000009,2024-03-01T08:05:00Z,food,1.0,eats_orders", lines[1])
	assert.Equal(t, lines[1], lines[2])
}

func TestRun_NoUsableData(t *testing.T) {
	dir := t.TempDir()
	in := saveWorkbook(t, dir, map[string][][]interface{}{
		"summary": {{"a", "b"}, {1, 2}},
	})
	out := filepath.Join(dir, "out.csv")

	code, stdout, stderr := runCLI(t, in, "--out", out)
	assert.Equal(t, 2, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "ERROR:")
	assert.NoFileExists(t, out)
}

func TestRun_UnreadableWorkbook(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")

	code, stdout, stderr := runCLI(t, filepath.Join(dir, "missing.xlsx"), "--out", out)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "ERROR:")
	assert.NoFileExists(t, out)
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no workbook", nil},
		{"two workbooks", []string{"a.xlsx", "b.xlsx"}},
		{"unknown flag", []string{"a.xlsx", "--nope"}},
		{"bad bucket", []string{"a.xlsx", "--bucket-minutes", "-5"}},
		{"bad log level", []string{"a.xlsx", "--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 64, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "ERROR:")
		})
	}
}

func TestRun_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	in := saveWorkbook(t, dir, map[string][][]interface{}{
		"rides_trips": {
			{"city_id", "pickup_hex_id9", "start_time"},
			{1, "8a0000001", "2024-03-01 08:05:00"},
			{1, "", "2024-03-01 08:05:00"},
		},
	})
	out := filepath.Join(dir, "out.csv")
	metrics := filepath.Join(dir, "metrics", "jobsingest.prom")

	code, _, stderr := runCLI(t, in, "--out", out, "--metrics-file", metrics)
	require.Equal(t, 0, code, stderr)

	content, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(content), "jobsingest_rows_written")
	assert.Contains(t, string(content), "jobsingest_rows_dropped")
	assert.Contains(t, string(content), `source_sheet="rides_trips"`)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := saveWorkbook(t, dir, map[string][][]interface{}{
		"jobs_like": {
			{"begin_checkpoint.actual_location_hexagon_id9", "datestr", "product_type_name"},
			{"8a2830800", "2024-01-01 10:15:00", "courier"},
		},
	})
	out := filepath.Join(dir, "from-config.csv")
	cfgPath := filepath.Join(dir, "jobsingest.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"ingest:\n  out: "+out+"\n  default_city_id: 7\n  bucket_minutes: 15\n"), 0644))

	code, stdout, stderr := runCLI(t, in, "--config", cfgPath)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "OK: wrote 1 rows to "+out+"\n", stdout)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "7,8a2830800,2024-01-01T10:15:00Z,food,1.0,jobs_like")
}

func TestRun_TypedCells(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), "rides_trips"))
	_, err := f.NewSheet("eats_orders")
	require.NoError(t, err)

	ts := time.Date(2024, 1, 13, 10, 15, 30, 0, time.UTC)
	header := []interface{}{"city_id", "pickup_hex_id9", "start_time"}
	require.NoError(t, f.SetSheetRow("rides_trips", "A1", &header))
	require.NoError(t, f.SetSheetRow("rides_trips", "A2", &[]interface{}{5, "8a0000001", ts}))
	require.NoError(t, f.SetSheetRow("rides_trips", "A3", &[]interface{}{5, "8a0000002", ts}))
	require.NoError(t, f.SetSheetRow("rides_trips", "A4", &[]interface{}{5, "8a0000003", ts}))
	require.NoError(t, f.SetSheetRow("eats_orders", "A1", &header))
	require.NoError(t, f.SetSheetRow("eats_orders", "A2", &[]interface{}{1234, "8a0000009", "2024-01-13 10:15:30"}))

	dateOnly, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	dayFirst := "dd/mm/yyyy hh:mm:ss"
	custom, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dayFirst})
	require.NoError(t, err)
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("rides_trips", "C3", "C3", dateOnly))
	require.NoError(t, f.SetCellStyle("rides_trips", "C4", "C4", custom))
	require.NoError(t, f.SetCellStyle("eats_orders", "A2", "A2", thousands))

	in := filepath.Join(dir, "typed.xlsx")
	require.NoError(t, f.SaveAs(in))
	out := filepath.Join(dir, "out.csv")

	code, stdout, stderr := runCLI(t, in, "--out", out, "--bucket-minutes", "0")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "OK: wrote 4 rows to "+out+"\n", stdout)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"city_id,zone,ts,user_type,jobs_like,source_sheet\n"+
			"5,8a0000001,2024-01-13T10:15:30Z,rides,1.0,rides_trips\n"+
			"5,8a0000002,2024-01-13T10:15:30Z,rides,1.0,rides_trips\n"+
			"5,8a0000003,2024-01-13T10:15:30Z,rides,1.0,rides_trips\n"+
			"1234,8a0000009,2024-01-13T10:15:30Z,food,1.0,eats_orders\n",
		string(content))
}

func TestRun_MetricsFileOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		workbook func(t *testing.T, dir string) string
		wantCode int
		status   string
	}{
		{
			name: "no usable data",
			workbook: func(t *testing.T, dir string) string {
				return saveWorkbook(t, dir, map[string][][]interface{}{
					"rides_trips": {
						{"city_id", "pickup_hex_id9", "start_time"},
						{"", "8a0000001", "2024-03-01 08:05:00"},
					},
				})
			},
			wantCode: 2,
			status:   "no_data",
		},
		{
			name: "unreadable workbook",
			workbook: func(t *testing.T, dir string) string {
				return filepath.Join(dir, "missing.xlsx")
			},
			wantCode: 1,
			status:   "input_access",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			metrics := filepath.Join(dir, "jobsingest.prom")

			code, _, _ := runCLI(t, tt.workbook(t, dir), "--out", filepath.Join(dir, "out.csv"), "--metrics-file", metrics)
			assert.Equal(t, tt.wantCode, code)

			content, err := os.ReadFile(metrics)
			require.NoError(t, err)
			assert.Contains(t, string(content), `status="`+tt.status+`"`)
		})
	}
}

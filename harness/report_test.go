package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportScoring(t *testing.T) {
	cases := []struct {
		name   string
		issues []Issue
		want   Score
		code   int
	}{
		{"clean", nil, ScorePass, 0},
		{"cosmetic only", []Issue{{Cosmetic, "note count mismatch"}}, ScorePass, 0},
		{"important only", []Issue{{Important, "arrow style mismatch"}}, ScoreNeedsWork, 3},
		{"blocking present", []Issue{{Important, "x"}, {Blocking, "missing participant"}}, ScoreFail, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReport(tc.name, tc.issues)
			assert.Equal(t, tc.want, r.Score)
			assert.Equal(t, tc.code, r.ExitCode())
		})
	}
}

func TestSummarizeAggregatesAcrossReports(t *testing.T) {
	reports := []*Report{
		NewReport("s1", nil),
		NewReport("s2", []Issue{{Blocking, "missing participant: bob"}}),
	}
	total := Summarize(reports)
	assert.Equal(t, 1, total.Blocking)
	assert.Equal(t, ScoreFail, total.Score)
}

func TestWriteArtifactsAndSummary(t *testing.T) {
	dir := t.TempDir()
	report := NewReport("case1", []Issue{{Important, "arrow style mismatch"}})

	err := WriteArtifacts(dir, "case1", "<mxfile/>", []byte("<svg/>"), report)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "case1.drawio"))
	assert.FileExists(t, filepath.Join(dir, "case1-reference.svg"))
	assert.FileExists(t, filepath.Join(dir, "case1-report.json"))

	summary := Summarize([]*Report{report})
	require.NoError(t, WriteSummary(dir, summary))
	assert.FileExists(t, filepath.Join(dir, "summary.json"))

	b, err := os.ReadFile(filepath.Join(dir, "case1-report.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "needs_work")
}

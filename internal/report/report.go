package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/spec-kit/sla-engine/internal/domain"
)

// Aggregate is one group-by row: issue count and average resolution hours for
// a grouping key (assignee or issue type).
type Aggregate struct {
	Key         string
	IssueCount  int
	AvgSlaHours float64
}

// Summary aggregates a batch of SLA results for downstream reporting.
type Summary struct {
	TotalEvaluated int
	MetCount       int
	ComplianceRate float64
	ByAssignee     []Aggregate
	ByIssueType    []Aggregate
}

// Build computes the compliance rate and grouped averages for evaluated
// issues. Results are matched to issues by issue ID; results without a
// matching issue are grouped under an empty key.
func Build(issues []domain.IssueRecord, results []*domain.SlaResult) Summary {
	byID := make(map[string]domain.IssueRecord, len(issues))
	for _, issue := range issues {
		byID[issue.IssueID] = issue
	}

	summary := Summary{}
	assignee := newGrouper()
	issueType := newGrouper()

	for _, result := range results {
		if result == nil {
			continue
		}
		summary.TotalEvaluated++
		if result.Met {
			summary.MetCount++
		}
		issue := byID[result.IssueID]
		assignee.add(issue.AssigneeName, result.ResolutionBusinessHours)
		issueType.add(issue.IssueType, result.ResolutionBusinessHours)
	}

	if summary.TotalEvaluated > 0 {
		summary.ComplianceRate = round2(float64(summary.MetCount) / float64(summary.TotalEvaluated) * 100)
	}
	summary.ByAssignee = assignee.rows()
	summary.ByIssueType = issueType.rows()
	return summary
}

// WriteCSV writes one aggregate table with the given key column header.
func WriteCSV(w io.Writer, keyHeader string, rows []Aggregate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{keyHeader, "issue_count", "sla_avg_hours"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Key,
			fmt.Sprintf("%d", row.IssueCount),
			fmt.Sprintf("%.2f", row.AvgSlaHours),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReports writes the assignee and issue-type CSVs under dir and returns
// the written paths.
func WriteReports(dir string, summary Summary) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	files := []struct {
		name      string
		keyHeader string
		rows      []Aggregate
	}{
		{"sla_avg_by_assignee.csv", "assignee_name", summary.ByAssignee},
		{"sla_avg_by_issue_type.csv", "issue_type", summary.ByIssueType},
	}

	paths := make(map[string]string, len(files))
	for _, file := range files {
		path := filepath.Join(dir, file.name)
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create report %s: %w", file.name, err)
		}
		err = WriteCSV(f, file.keyHeader, file.rows)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, fmt.Errorf("write report %s: %w", file.name, err)
		}
		paths[file.name] = path
	}
	return paths, nil
}

type grouper struct {
	counts map[string]int
	sums   map[string]float64
}

func newGrouper() *grouper {
	return &grouper{counts: make(map[string]int), sums: make(map[string]float64)}
}

func (g *grouper) add(key string, hours float64) {
	g.counts[key]++
	g.sums[key] += hours
}

func (g *grouper) rows() []Aggregate {
	rows := make([]Aggregate, 0, len(g.counts))
	for key, count := range g.counts {
		rows = append(rows, Aggregate{
			Key:         key,
			IssueCount:  count,
			AvgSlaHours: round2(g.sums[key] / float64(count)),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

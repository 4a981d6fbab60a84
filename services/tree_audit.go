package services

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// AuditReport lists problems found in stored hierarchy and rank data.
type AuditReport struct {
	Cycles   []uint   `json:"cycles"`    // institutions whose parent chain loops
	Orphans  []uint   `json:"orphans"`   // institutions whose parent does not exist
	RankGaps []string `json:"rank_gaps"` // scopes whose ranks are not 0..n-1
}

// Clean reports whether the audit found nothing.
func (r AuditReport) Clean() bool {
	return len(r.Cycles) == 0 && len(r.Orphans) == 0 && len(r.RankGaps) == 0
}

type rankedRow struct {
	ID        uint
	ScopeID   *uint
	SortOrder int
}

// AuditHierarchy checks the institution tree for loops and dangling parents,
// and every ranked table for duplicate or missing ranks.
func AuditHierarchy(ctx context.Context, db *gorm.DB) (AuditReport, error) {
	db = db.WithContext(ctx)
	var report AuditReport

	var institutions []rankedRow
	if err := db.Table("institutions").Select("id, parent_id AS scope_id, sort_order").
		Scan(&institutions).Error; err != nil {
		return report, fmt.Errorf("read institutions: %w", err)
	}

	parents := make(map[uint]*uint, len(institutions))
	for _, row := range institutions {
		parents[row.ID] = row.ScopeID
	}
	for _, row := range institutions {
		visited := map[uint]bool{row.ID: true}
		next := row.ScopeID
		for next != nil {
			parent, ok := parents[*next]
			if !ok {
				report.Orphans = append(report.Orphans, row.ID)
				break
			}
			if visited[*next] {
				report.Cycles = append(report.Cycles, row.ID)
				break
			}
			visited[*next] = true
			next = parent
		}
	}
	report.RankGaps = append(report.RankGaps, rankGaps("institutions", institutions)...)

	for _, table := range []string{"departments", "programs"} {
		var rows []rankedRow
		if err := db.Table(table).Select("id, institution_id AS scope_id, sort_order").
			Scan(&rows).Error; err != nil {
			return report, fmt.Errorf("read %s: %w", table, err)
		}
		report.RankGaps = append(report.RankGaps, rankGaps(table, rows)...)
	}
	return report, nil
}

func rankGaps(table string, rows []rankedRow) []string {
	scopes := map[string][]int{}
	for _, row := range rows {
		key := "root"
		if row.ScopeID != nil {
			key = fmt.Sprint(*row.ScopeID)
		}
		scopes[key] = append(scopes[key], row.SortOrder)
	}

	var gaps []string
	for key, ranks := range scopes {
		sort.Ints(ranks)
		for i, rank := range ranks {
			if rank != i {
				gaps = append(gaps, fmt.Sprintf("%s scope %s", table, key))
				break
			}
		}
	}
	sort.Strings(gaps)
	return gaps
}

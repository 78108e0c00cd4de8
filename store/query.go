package store

import (
	"strings"

	"github.com/hireloop/concierge/domain"
)

// BuildCandidateQuery constructs the candidate read for the given filter.
// Values are never interpolated into the query text; they are returned as
// placeholder arguments. The query is valid for every subset of present
// filters and always carries a LIMIT.
//
// The salary column is derived from the job type once, so the budget filter
// and the ordering clause always target the same column.
func BuildCandidateQuery(filter domain.CandidateFilter) (string, []any) {
	salaryCol := "u.full_time_salary"
	if filter.FullTime != nil && !*filter.FullTime {
		salaryCol = "u.part_time_salary"
	}

	var sb strings.Builder
	sb.WriteString("SELECT u.user_id, u.full_name, u.full_time, u.full_time_salary, u.part_time_salary")
	if len(filter.Skills) > 0 {
		sb.WriteString(", COUNT(DISTINCT s.name) AS matched_skills")
	}
	sb.WriteString(" FROM users u")
	sb.WriteString(" LEFT JOIN user_skills us ON us.user_id = u.user_id")
	sb.WriteString(" LEFT JOIN skills s ON s.skill_id = us.skill_id")

	var (
		where []string
		args  []any
	)
	if filter.FullTime != nil {
		where = append(where, "u.full_time = ?")
		args = append(args, *filter.FullTime)
	}
	if filter.Budget != nil {
		where = append(where, "("+salaryCol+" IS NULL OR "+salaryCol+" <= ?)")
		args = append(args, *filter.Budget)
	}
	if len(filter.Skills) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.Skills)), ", ")
		where = append(where, "s.name IN ("+placeholders+")")
		for _, skill := range filter.Skills {
			args = append(args, skill)
		}
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	sb.WriteString(" GROUP BY u.user_id")
	if len(filter.Skills) > 0 {
		sb.WriteString(" ORDER BY matched_skills DESC, " + salaryCol + " ASC")
	} else {
		sb.WriteString(" ORDER BY " + salaryCol + " ASC")
	}
	sb.WriteString(" LIMIT ?")
	args = append(args, filter.Limit)

	return sb.String(), args
}

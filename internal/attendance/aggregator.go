package attendance

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// Aggregator reduces an employee's attendance over a period into a Summary.
type Aggregator struct {
	repo   Repository
	logger *slog.Logger
}

func NewAggregator(repo Repository, logger *slog.Logger) *Aggregator {
	return &Aggregator{repo: repo, logger: logger}
}

// Summarize fetches the employee's records in [periodStart, periodEnd] and
// reduces them. Zero records is a valid outcome (e.g. a newly hired employee)
// and yields an all-zero summary.
func (a *Aggregator) Summarize(employeeID int64, periodStart, periodEnd time.Time) (*Summary, error) {
	records, err := a.repo.GetByEmployeeAndRange(employeeID, periodStart, periodEnd)
	if err != nil {
		a.logger.Error("failed to fetch attendance records",
			"error", err,
			"employee_id", employeeID,
			"period_start", periodStart,
			"period_end", periodEnd)
		return nil, err
	}

	summary := Reduce(records)

	a.logger.Debug("attendance summarized",
		"employee_id", employeeID,
		"working_days", summary.WorkingDays,
		"absent_days", summary.AbsentDays,
		"leave_days", summary.LeaveDays,
		"overtime_hours", summary.OvertimeHours,
		"total_days", summary.TotalDays)

	return summary, nil
}

// Reduce folds attendance records into a Summary. It is a pure function so
// the counting rules can be tested without a store.
func Reduce(records []*Record) *Summary {
	summary := &Summary{
		OvertimeHours: decimal.Zero,
		TotalDays:     len(records),
	}

	for _, record := range records {
		switch record.Status {
		case StatusPresent:
			summary.WorkingDays++
		case StatusAbsent:
			summary.AbsentDays++
		case StatusLeave:
			summary.LeaveDays++
		}
		summary.OvertimeHours = summary.OvertimeHours.Add(record.OvertimeHours)
	}

	return summary
}

// PeriodBounds returns the first and last calendar day of the given month.
func PeriodBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

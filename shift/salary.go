package shift

import (
	"math"
	"time"

	"roster-bot/model"

	"github.com/samber/lo"
)

// Salary is the pay computed for one agent over a shift history.
type Salary struct {
	Worked time.Duration
	Rank   string
	Base   int64
	Bonus  int64
	Total  int64
}

// ComputeSalary sums the closed shifts, picks the base salary of the first
// rank in cfg.Ranks the agent holds (falling back to the agent's own salary)
// and adds HourlyRate per worked hour. Open shifts are not counted.
func ComputeSalary(agent model.Agent, roles []string, shifts []model.ShiftRecord, cfg model.SalaryConfig) Salary {
	closed := lo.Filter(shifts, func(s model.ShiftRecord, _ int) bool {
		return !s.Open() && s.UserID == agent.UserID
	})
	// whole minutes, matching the "Xh Ym" shown to the agent
	worked := lo.SumBy(closed, func(s model.ShiftRecord) time.Duration {
		return s.Duration()
	}).Truncate(time.Minute)

	result := Salary{Worked: worked, Base: agent.Salary}
	if rank, ok := lo.Find(cfg.Ranks, func(r model.SalaryRank) bool {
		return lo.Contains(roles, r.RoleID)
	}); ok {
		result.Rank = rank.Name
		result.Base = rank.Base
	}

	result.Bonus = int64(math.Round(cfg.HourlyRate * worked.Hours()))
	result.Total = result.Base + result.Bonus
	return result
}

package shift

import (
	"testing"
	"time"

	"roster-bot/model"

	"github.com/stretchr/testify/assert"
)

func closedShift(user string, from time.Time, d time.Duration) model.ShiftRecord {
	end := from.Add(d)
	return model.ShiftRecord{UserID: user, StartedAt: from, EndedAt: &end}
}

func TestComputeSalary(t *testing.T) {
	agent := model.Agent{UserID: "a", Salary: 1500}
	cfg := model.SalaryConfig{
		HourlyRate: 100,
		Ranks: []model.SalaryRank{
			{RoleID: "chief", Name: "Chef", Base: 5000},
			{RoleID: "officer", Name: "Officier", Base: 3000},
		},
	}
	shifts := []model.ShiftRecord{
		closedShift("a", start, 90*time.Minute),
		closedShift("a", start.Add(24*time.Hour), 45*time.Minute),
		{UserID: "a", StartedAt: start.Add(48 * time.Hour)},
	}

	t.Run("first matching rank wins", func(t *testing.T) {
		got := ComputeSalary(agent, []string{"officer", "chief"}, shifts, cfg)
		assert.Equal(t, "Chef", got.Rank)
		assert.Equal(t, int64(5000), got.Base)
		assert.Equal(t, 135*time.Minute, got.Worked)
		assert.Equal(t, int64(225), got.Bonus)
		assert.Equal(t, int64(5225), got.Total)
	})

	t.Run("falls back to agent salary", func(t *testing.T) {
		got := ComputeSalary(agent, nil, shifts, cfg)
		assert.Empty(t, got.Rank)
		assert.Equal(t, int64(1500), got.Base)
		assert.Equal(t, int64(1725), got.Total)
	})

	t.Run("open shifts and other agents do not count", func(t *testing.T) {
		got := ComputeSalary(agent, nil, []model.ShiftRecord{
			{UserID: "a", StartedAt: start},
			closedShift("b", start, time.Hour),
		}, cfg)
		assert.Zero(t, got.Worked)
		assert.Zero(t, got.Bonus)
	})

	t.Run("idempotent and does not mutate input", func(t *testing.T) {
		before := append([]model.ShiftRecord(nil), shifts...)
		first := ComputeSalary(agent, []string{"officer"}, shifts, cfg)
		second := ComputeSalary(agent, []string{"officer"}, shifts, cfg)
		assert.Equal(t, first, second)
		assert.Equal(t, before, shifts)
	})

	t.Run("bonus is rounded", func(t *testing.T) {
		got := ComputeSalary(agent, nil, []model.ShiftRecord{closedShift("a", start, 20*time.Minute)}, model.SalaryConfig{HourlyRate: 10})
		// 10 * 1/3 h = 3.33
		assert.Equal(t, int64(3), got.Bonus)
	})

	t.Run("seconds are dropped before the bonus", func(t *testing.T) {
		got := ComputeSalary(agent, nil, []model.ShiftRecord{
			closedShift("a", start, 59*time.Minute+59*time.Second),
		}, model.SalaryConfig{HourlyRate: 60})
		assert.Equal(t, 59*time.Minute, got.Worked)
		assert.Equal(t, int64(59), got.Bonus)
	})
}

package postgresql_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

func newShift(workerID string, start time.Time, hours int) *shift.Shift {
	return &shift.Shift{
		WorkerID:    workerID,
		WorkplaceID: "wp-1",
		RoutineIDs:  []string{"open"},
		WorkDate:    time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, kst),
		StartTime:   start,
		EndTime:     start.Add(time.Duration(hours) * time.Hour),
		HourlyRate:  decimal.NewFromInt(10000),
		GrossIncome: decimal.NewFromInt(int64(hours) * 10000),
		Deductions: payroll.DeductionBreakdown{
			NationalPension:     decimal.NewFromInt(3600),
			HealthInsurance:     decimal.Zero,
			EmploymentInsurance: decimal.Zero,
			IndustrialAccident:  decimal.Zero,
			IncomeTax:           decimal.Zero,
		},
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	setup := NewTestDatabase(t)

	applied, err := postgresql.Migrate(context.Background(), setup.DB, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestShiftRepository_CRUD(t *testing.T) {
	setup := NewTestDatabase(t)
	setup.SeedWorkplace(t, "wp-1", "owner-1", "Cafe", "worker-1")
	repo := postgresql.NewShiftRepository(setup.DB, kst)
	ctx := context.Background()

	s := newShift("worker-1", time.Date(2025, 10, 13, 9, 0, 0, 0, kst), 8)
	require.NoError(t, repo.Create(ctx, s))
	require.NotEmpty(t, s.ID)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-13", got.WorkDate.Format("2006-01-02"))
	assert.Equal(t, kst, got.WorkDate.Location())
	assert.True(t, s.StartTime.Equal(got.StartTime))
	assert.Equal(t, []string{"open"}, got.RoutineIDs)
	assert.True(t, got.GrossIncome.Equal(decimal.NewFromInt(80000)))
	assert.True(t, got.Deductions.NationalPension.Equal(decimal.NewFromInt(3600)))
	assert.Nil(t, got.AlarmSentAt)
	assert.Nil(t, got.FixedPay)

	memo := "closing"
	got.Memo = &memo
	got.FixedPay = &shift.FixedPay{
		Cadence:    salary.SalaryTypeWeekly,
		Amount:     decimal.NewFromInt(500000),
		Deductions: salary.DeductionToggles{IncomeTax: true},
	}
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Memo)
	assert.Equal(t, "closing", *updated.Memo)
	require.NotNil(t, updated.FixedPay)
	assert.Equal(t, salary.SalaryTypeWeekly, updated.FixedPay.Cadence)
	assert.True(t, updated.FixedPay.Amount.Equal(decimal.NewFromInt(500000)))
	assert.True(t, updated.FixedPay.Deductions.IncomeTax)

	workerID := "worker-1"
	list, err := repo.List(ctx, shift.ListFilter{
		WorkerID: &workerID,
		From:     time.Date(2025, 10, 1, 0, 0, 0, 0, kst),
		To:       time.Date(2025, 11, 1, 0, 0, 0, 0, kst),
	})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := repo.Count(ctx, shift.ListFilter{WorkerID: &workerID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = repo.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), shift.ErrShiftNotFound)
}

func TestShiftRepository_HasOverlap(t *testing.T) {
	setup := NewTestDatabase(t)
	setup.SeedWorkplace(t, "wp-1", "owner-1", "Cafe", "worker-1")
	repo := postgresql.NewShiftRepository(setup.DB, kst)
	ctx := context.Background()

	start := time.Date(2025, 10, 13, 9, 0, 0, 0, kst)
	s := newShift("worker-1", start, 8)
	require.NoError(t, repo.Create(ctx, s))

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		excludeID string
		want      bool
	}{
		{"inside", start.Add(time.Hour), start.Add(2 * time.Hour), "", true},
		{"touching end", start.Add(8 * time.Hour), start.Add(10 * time.Hour), "", false},
		{"touching start", start.Add(-2 * time.Hour), start, "", false},
		{"excluded self", start, start.Add(8 * time.Hour), s.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.HasOverlap(ctx, "worker-1", tt.start, tt.end, tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShiftRepository_WithWorkerLockSerializes(t *testing.T) {
	setup := NewTestDatabase(t)
	setup.SeedWorkplace(t, "wp-1", "owner-1", "Cafe", "worker-1")
	repo := postgresql.NewShiftRepository(setup.DB, kst)
	ctx := context.Background()

	start := time.Date(2025, 10, 13, 9, 0, 0, 0, kst)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.WithWorkerLock(ctx, "worker-1", func(ctx context.Context) error {
				overlap, err := repo.HasOverlap(ctx, "worker-1", start, start.Add(8*time.Hour), "")
				if err != nil || overlap {
					return err
				}
				if err := repo.Create(ctx, newShift("worker-1", start, 8)); err != nil {
					return err
				}
				mu.Lock()
				created++
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestShiftRepository_Alarms(t *testing.T) {
	setup := NewTestDatabase(t)
	setup.SeedWorkplace(t, "wp-1", "owner-1", "Cafe", "worker-1")
	repo := postgresql.NewShiftRepository(setup.DB, kst)
	ctx := context.Background()

	now := time.Date(2025, 10, 13, 8, 0, 0, 0, kst)
	soon := newShift("worker-1", now.Add(30*time.Minute), 4)
	later := newShift("worker-1", now.Add(5*time.Hour), 4)
	require.NoError(t, repo.Create(ctx, soon))
	require.NoError(t, repo.Create(ctx, later))

	due, err := repo.ListStartingBetween(ctx, now, now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, soon.ID, due[0].ID)

	require.NoError(t, repo.MarkAlarmSent(ctx, []string{soon.ID}, now))

	due, err = repo.ListStartingBetween(ctx, now, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestSalaryPolicyRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	setup.SeedWorkplace(t, "wp-1", "owner-1", "Cafe", "worker-1")
	repo := postgresql.NewSalaryPolicyRepository(setup.DB)
	ctx := context.Background()

	rate := decimal.NewFromInt(10030)
	policy := salary.Policy{
		WorkerID:          "worker-1",
		WorkplaceID:       "wp-1",
		SalaryType:        salary.SalaryTypeMonthly,
		SalaryCalculation: salary.CalculationHourly,
		HourlyRate:        &rate,
		NationalPension:   true,
	}

	created, err := repo.Create(ctx, policy)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, policy)
	assert.ErrorIs(t, err, salary.ErrPolicyExists)

	got, err := repo.GetByWorkerAndWorkplace(ctx, "worker-1", "wp-1")
	require.NoError(t, err)
	require.NotNil(t, got.HourlyRate)
	assert.True(t, got.HourlyRate.Equal(rate))
	assert.Nil(t, got.FixedRate)
	assert.True(t, got.NationalPension)

	got.IncomeTax = true
	updated, err := repo.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.IncomeTax)

	_, err = repo.Update(ctx, salary.Policy{WorkerID: "nobody", WorkplaceID: "wp-1", SalaryType: salary.SalaryTypeDaily, SalaryCalculation: salary.CalculationHourly, HourlyRate: &rate})
	assert.ErrorIs(t, err, salary.ErrPolicyNotFound)

	_, err = repo.GetByWorkerAndWorkplace(ctx, "nobody", "wp-1")
	assert.ErrorIs(t, err, salary.ErrPolicyNotFound)

	list, err := repo.ListByWorkplace(ctx, "wp-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWorkplaceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	setup.SeedWorkplace(t, "wp-1", "owner-1", "Cafe", "worker-1", "worker-2")
	setup.SeedWorkplace(t, "wp-2", "owner-1", "Bar", "worker-1")
	repo := postgresql.NewWorkplaceRepository(setup.DB)
	ctx := context.Background()

	owned, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "Bar", owned[0].Name)

	joined, err := repo.ListByWorker(ctx, "worker-2")
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, "wp-1", joined[0].ID)

	members, err := repo.ListMembers(ctx, "wp-1")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	ok, err := repo.IsMember(ctx, "wp-2", "worker-2")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, workplace.ErrWorkplaceNotFound)
}

func TestHolidayRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	setup.SeedWorkplace(t, "wp-1", "owner-1", "Cafe")
	_, err := setup.DB.Exec(context.Background(), `UPDATE workplaces SET weekly_rest_day = 'SUNDAY' WHERE id = 'wp-1'`)
	require.NoError(t, err)

	repo := postgresql.NewHolidayRepository(setup.DB, kst)
	ctx := context.Background()

	chuseok := time.Date(2025, 10, 6, 0, 0, 0, 0, kst)
	require.NoError(t, repo.Upsert(ctx, holiday.Holiday{Date: chuseok, Name: "Chuseok"}))
	require.NoError(t, repo.Upsert(ctx, holiday.Holiday{Date: chuseok, Name: "Chuseok Day"}))

	ok, err := repo.IsPublicHoliday(ctx, chuseok)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := repo.ListBetween(ctx, time.Date(2025, 10, 1, 0, 0, 0, 0, kst), time.Date(2025, 11, 1, 0, 0, 0, 0, kst))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Chuseok Day", list[0].Name)

	day, err := repo.WeeklyRestDay(ctx, "wp-1")
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.Equal(t, "SUNDAY", *day)

	day, err = repo.WeeklyRestDay(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, day)
}

func TestNotificationRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewNotificationRepository(setup.DB)
	ctx := context.Background()

	cafe, bar := "wp-1", "wp-2"
	base := time.Now().Add(-time.Hour)
	batch := []*notification.Notification{
		{WorkplaceID: &cafe, RecipientID: "worker-1", Type: notification.TypeShiftAssigned, Title: "a", CreatedAt: base},
		{WorkplaceID: &bar, RecipientID: "worker-1", Type: notification.TypeShiftAlarm, Title: "b", CreatedAt: base.Add(time.Minute),
			Data: map[string]interface{}{"shift_id": "s-1"}},
		{WorkplaceID: &cafe, RecipientID: "worker-2", Type: notification.TypeShiftUpdated, Title: "c", CreatedAt: base},
	}
	require.NoError(t, repo.Insert(ctx, batch...))

	list, total, err := repo.List(ctx, notification.ListFilter{RecipientID: "worker-1", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Title)
	assert.Equal(t, "s-1", list[0].Data["shift_id"])

	list, total, err = repo.List(ctx, notification.ListFilter{RecipientID: "worker-1", WorkplaceID: cafe})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "a", list[0].Title)

	count, err := repo.CountUnread(ctx, "worker-1", bar)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.MarkRead(ctx, "worker-1", []string{batch[0].ID}))
	count, err = repo.CountUnread(ctx, "worker-1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.MarkRead(ctx, "worker-1", nil))
	removed, err := repo.DeleteReadBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	assert.ErrorIs(t, repo.Delete(ctx, "worker-1", batch[2].ID), notification.ErrNotificationNotFound)
	require.NoError(t, repo.Delete(ctx, "worker-2", batch[2].ID))

	enabled, err := repo.PushEnabled(ctx, "worker-1", notification.TypeShiftAlarm)
	require.NoError(t, err)
	assert.True(t, enabled)

	pref := &notification.NotificationPreference{UserID: "worker-1", NotificationType: notification.TypeShiftAlarm}
	require.NoError(t, repo.SavePreference(ctx, pref))
	enabled, err = repo.PushEnabled(ctx, "worker-1", notification.TypeShiftAlarm)
	require.NoError(t, err)
	assert.False(t, enabled)

	prefs, err := repo.Preferences(ctx, "worker-1")
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	assert.Equal(t, notification.TypeShiftAlarm, prefs[0].NotificationType)
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveNextCalibration(t *testing.T) {
	last := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("interval applied", func(t *testing.T) {
		tool := Tool{LastCalibrationDate: &last}
		tool.DeriveNextCalibration(&ToolModel{RequiresCalibration: true, CalibrationIntervalDays: 90})
		require.NotNil(t, tool.NextCalibrationDate)
		assert.Equal(t, last.AddDate(0, 0, 90), *tool.NextCalibrationDate)
	})

	t.Run("cleared when model does not require calibration", func(t *testing.T) {
		stale := last.AddDate(0, 1, 0)
		tool := Tool{LastCalibrationDate: &last, NextCalibrationDate: &stale}
		tool.DeriveNextCalibration(&ToolModel{RequiresCalibration: false})
		assert.Nil(t, tool.NextCalibrationDate)
	})

	t.Run("cleared without a calibration record", func(t *testing.T) {
		stale := last
		tool := Tool{NextCalibrationDate: &stale}
		tool.DeriveNextCalibration(&ToolModel{RequiresCalibration: true, CalibrationIntervalDays: 30})
		assert.Nil(t, tool.NextCalibrationDate)
	})

	t.Run("cleared on nil model", func(t *testing.T) {
		stale := last
		tool := Tool{LastCalibrationDate: &last, NextCalibrationDate: &stale}
		tool.DeriveNextCalibration(nil)
		assert.Nil(t, tool.NextCalibrationDate)
	})
}

func TestCalibrationDaysRemaining(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 5, CalibrationDaysRemaining(now.AddDate(0, 0, 5), now))
	assert.Equal(t, -2, CalibrationDaysRemaining(now.AddDate(0, 0, -2), now))
	assert.Equal(t, 0, CalibrationDaysRemaining(now, now))
	// 不足一整天按 0 算
	assert.Equal(t, 0, CalibrationDaysRemaining(now.Add(23*time.Hour), now))
}

func TestClassifyCalibration(t *testing.T) {
	cases := []struct {
		days int
		want CalibrationUrgency
	}{
		{-1, UrgencyOverdue},
		{0, UrgencyUrgent},
		{3, UrgencyUrgent},
		{4, UrgencyAttention},
		{7, UrgencyAttention},
		{8, UrgencyNormal},
		{30, UrgencyNormal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyCalibration(tc.days), "days=%d", tc.days)
	}
}

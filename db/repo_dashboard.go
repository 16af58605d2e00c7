// db/repo_dashboard.go
package db

import (
	"context"
	"sort"
	"time"

	"toolcrib/models"
)

const (
	calibrationAlertWindowDays = 10
	recentLoansLimit           = 10
	topToolsLimit              = 5
	monthlyWindowMonths        = 6
	lowAvailabilityRatio       = 0.20
)

type CalibrationItem struct {
	Tool          models.Tool               `json:"tool"`
	DaysRemaining int                       `json:"daysRemaining"`
	Urgency       models.CalibrationUrgency `json:"urgency"`
}

type OverdueCalibrationItem struct {
	Tool        models.Tool `json:"tool"`
	DaysOverdue int         `json:"daysOverdue"`
}

type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MonthBucket struct {
	Month   string `json:"month"` // "2006-01"
	Loans   int    `json:"loans"`
	Returns int    `json:"returns"`
}

type ToolUsage struct {
	Tool  models.Tool `json:"tool"`
	Count int         `json:"count"`
}

type DashboardStats struct {
	TotalTools     int `json:"totalTools"`
	AvailableTools int `json:"availableTools"`
	LoanedTools    int `json:"loanedTools"`
	ActiveLoans    int `json:"activeLoans"`

	// 未来 10 天内到期的校准数；已过期的不算在内
	CalibrationAlerts int `json:"calibrationAlerts"`

	RecentLoans          []models.Loan            `json:"recentLoans"`
	UpcomingCalibrations []CalibrationItem        `json:"upcomingCalibrations"`
	OverdueCalibrations  []OverdueCalibrationItem `json:"overdueCalibrations"`
	UsageByDepartment    []GroupCount             `json:"usageByDepartment"`
	UsageByClass         []GroupCount             `json:"usageByClass"`
	MonthlyActivity      []MonthBucket            `json:"monthlyActivity"`
	TopTools             []ToolUsage              `json:"topTools"`
	LowAvailability      []models.Tool            `json:"lowAvailability"`
	OverdueLoans         []models.Loan            `json:"overdueLoans"`
}

// GetDashboardStats 把统计算在内存里：一次取全量工具和借用记录，再分组。
// scopeUserID 非空时（普通用户）借用相关指标只看本人，库存与校准指标保持全局。
// 并列名次保持查询顺序，不再定义次级排序键。
func (r *Repo) GetDashboardStats(ctx context.Context, scopeUserID string, now time.Time) (*DashboardStats, error) {
	var tools []models.Tool
	if err := r.DB.WithContext(ctx).
		Preload("Class").Preload("Model").
		Order("created_at ASC").
		Find(&tools).Error; err != nil {
		return nil, err
	}

	loanQ := r.DB.WithContext(ctx).Model(&models.Loan{}).
		Preload("Tool").Preload("User").
		Order("loan_date DESC")
	if scopeUserID != "" {
		loanQ = loanQ.Where("user_id = ?", scopeUserID)
	}
	var loans []models.Loan
	if err := loanQ.Find(&loans).Error; err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		RecentLoans:          []models.Loan{},
		UpcomingCalibrations: []CalibrationItem{},
		OverdueCalibrations:  []OverdueCalibrationItem{},
		UsageByDepartment:    []GroupCount{},
		UsageByClass:         []GroupCount{},
		TopTools:             []ToolUsage{},
		LowAvailability:      []models.Tool{},
		OverdueLoans:         []models.Loan{},
	}

	toolByID := make(map[string]models.Tool, len(tools))
	for _, t := range tools {
		toolByID[t.ID] = t

		stats.TotalTools++
		switch t.Status {
		case models.ToolAvailable:
			stats.AvailableTools++
		case models.ToolLoaned:
			stats.LoanedTools++
		}

		if t.NextCalibrationDate != nil {
			days := models.CalibrationDaysRemaining(*t.NextCalibrationDate, now)
			if days < 0 {
				stats.OverdueCalibrations = append(stats.OverdueCalibrations, OverdueCalibrationItem{
					Tool:        t,
					DaysOverdue: -days,
				})
			} else {
				stats.UpcomingCalibrations = append(stats.UpcomingCalibrations, CalibrationItem{
					Tool:          t,
					DaysRemaining: days,
					Urgency:       models.ClassifyCalibration(days),
				})
				if days <= calibrationAlertWindowDays {
					stats.CalibrationAlerts++
				}
			}
		}

		if t.Quantity > 0 {
			ratio := float64(t.AvailableQuantity) / float64(t.Quantity)
			if t.AvailableQuantity <= 1 || ratio <= lowAvailabilityRatio {
				stats.LowAvailability = append(stats.LowAvailability, t)
			}
		}
	}

	sort.SliceStable(stats.UpcomingCalibrations, func(i, j int) bool {
		return stats.UpcomingCalibrations[i].DaysRemaining < stats.UpcomingCalibrations[j].DaysRemaining
	})
	sort.SliceStable(stats.OverdueCalibrations, func(i, j int) bool {
		return stats.OverdueCalibrations[i].DaysOverdue > stats.OverdueCalibrations[j].DaysOverdue
	})

	// 月度序列：当月起往前 6 个自然月
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthIndex := make(map[string]int, monthlyWindowMonths)
	for i := monthlyWindowMonths - 1; i >= 0; i-- {
		m := monthStart.AddDate(0, -i, 0)
		key := m.Format("2006-01")
		monthIndex[key] = len(stats.MonthlyActivity)
		stats.MonthlyActivity = append(stats.MonthlyActivity, MonthBucket{Month: key})
	}

	deptCount := map[string]int{}
	var deptOrder []string
	classCount := map[string]int{}
	var classOrder []string
	usageCount := map[string]int{}
	var usageOrder []string

	for _, l := range loans {
		if l.Status == models.LoanActive && l.ReturnDate == nil {
			stats.ActiveLoans++
			if l.Overdue(now) {
				stats.OverdueLoans = append(stats.OverdueLoans, l)
			}
		}

		if len(stats.RecentLoans) < recentLoansLimit {
			stats.RecentLoans = append(stats.RecentLoans, l)
		}

		if idx, ok := monthIndex[l.LoanDate.UTC().Format("2006-01")]; ok {
			stats.MonthlyActivity[idx].Loans++
		}
		if l.ReturnDate != nil {
			if idx, ok := monthIndex[l.ReturnDate.UTC().Format("2006-01")]; ok {
				stats.MonthlyActivity[idx].Returns++
			}
		}

		dept := "unassigned"
		if l.User != nil && l.User.Department != "" {
			dept = l.User.Department
		}
		if _, seen := deptCount[dept]; !seen {
			deptOrder = append(deptOrder, dept)
		}
		deptCount[dept]++

		if t, ok := toolByID[l.ToolID]; ok {
			className := "unclassified"
			if t.Class != nil {
				className = t.Class.Name
			}
			if _, seen := classCount[className]; !seen {
				classOrder = append(classOrder, className)
			}
			classCount[className]++
		}

		if _, seen := usageCount[l.ToolID]; !seen {
			usageOrder = append(usageOrder, l.ToolID)
		}
		usageCount[l.ToolID]++
	}

	for _, d := range deptOrder {
		stats.UsageByDepartment = append(stats.UsageByDepartment, GroupCount{Name: d, Count: deptCount[d]})
	}
	sort.SliceStable(stats.UsageByDepartment, func(i, j int) bool {
		return stats.UsageByDepartment[i].Count > stats.UsageByDepartment[j].Count
	})

	for _, c := range classOrder {
		stats.UsageByClass = append(stats.UsageByClass, GroupCount{Name: c, Count: classCount[c]})
	}
	sort.SliceStable(stats.UsageByClass, func(i, j int) bool {
		return stats.UsageByClass[i].Count > stats.UsageByClass[j].Count
	})

	for _, id := range usageOrder {
		if t, ok := toolByID[id]; ok {
			stats.TopTools = append(stats.TopTools, ToolUsage{Tool: t, Count: usageCount[id]})
		}
	}
	sort.SliceStable(stats.TopTools, func(i, j int) bool {
		return stats.TopTools[i].Count > stats.TopTools[j].Count
	})
	if len(stats.TopTools) > topToolsLimit {
		stats.TopTools = stats.TopTools[:topToolsLimit]
	}

	return stats, nil
}

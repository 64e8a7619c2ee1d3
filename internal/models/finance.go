package models

import "time"

// FinancialSummary агрегаты журнала операций за период.
// Доход от доставки попадает только в TotalRevenue.
type FinancialSummary struct {
	TotalRevenue        float64            `json:"total_revenue"`
	TotalExpenses       float64            `json:"total_expenses"`
	SubscriptionRevenue float64            `json:"subscription_revenue"`
	ProductRevenue      float64            `json:"product_revenue"`
	RevenueByDay        map[string]float64 `json:"revenue_by_day"`
	ExpensesByCategory  map[string]float64 `json:"expenses_by_category"`
}

// NewFinancialSummary возвращает пустую сводку с инициализированными картами.
func NewFinancialSummary() *FinancialSummary {
	return &FinancialSummary{
		RevenueByDay:       map[string]float64{},
		ExpensesByCategory: map[string]float64{},
	}
}

// DashboardStats показатели для главной страницы за текущий месяц.
type DashboardStats struct {
	TotalTrainees              int                `json:"total_trainees"`
	ActiveMembers              int                `json:"active_members"`
	ActiveSubscriptions        int                `json:"active_subscriptions"`
	ExpiredSubscriptions       int                `json:"expired_subscriptions"`
	ExpiringSubscriptions      int                `json:"expiring_subscriptions"`
	MonthlyRevenue             float64            `json:"monthly_revenue"`
	MonthlyExpenses            float64            `json:"monthly_expenses"`
	MonthlySubscriptionRevenue float64            `json:"monthly_subscription_revenue"`
	MonthlyProductRevenue      float64            `json:"monthly_product_revenue"`
	ExpensesByCategory         map[string]float64 `json:"expenses_by_category"`
	NetIncome                  float64            `json:"net_income"`
}

// EmptyDashboardStats возвращает нулевые показатели.
func EmptyDashboardStats() DashboardStats {
	return DashboardStats{ExpensesByCategory: map[string]float64{}}
}

// DailyRevenue выручка за один календарный день.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// ActivityKind различает записи ленты последних событий.
type ActivityKind string

const (
	ActivitySubscription ActivityKind = "subscription"
	ActivityTransaction  ActivityKind = "transaction"
)

// Activity событие ленты на главной странице.
type Activity struct {
	Kind        ActivityKind `json:"kind"`
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Amount      *float64     `json:"amount,omitempty"`
	Date        time.Time    `json:"date"`
}

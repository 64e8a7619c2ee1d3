package models

import "time"

// TransactionType определяет источник движения денег.
type TransactionType string

const (
	TransactionSubscription TransactionType = "subscription"
	TransactionProduct      TransactionType = "product"
	TransactionDelivery     TransactionType = "delivery"
	TransactionExpense      TransactionType = "expense"
)

// ExpenseCategories перечисляет допустимые категории расходов.
var ExpenseCategories = []string{
	"rent",
	"salaries",
	"utilities",
	"equipment",
	"maintenance",
	"marketing",
	"other",
}

// Transaction запись финансового журнала. Amount со знаком:
// доходы положительные, расходы всегда отрицательные.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      *string         `json:"user_id,omitempty"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Category    *string         `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExpenseRequest используется для приёма расхода из JSON-запроса.
// Amount передаётся положительным, знак выставляется при записи.
type ExpenseRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required,oneof=rent salaries utilities equipment maintenance marketing other"`
	Date        string  `json:"date,omitempty"`
}

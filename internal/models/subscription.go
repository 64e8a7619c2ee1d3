package models

import (
	"time"

	"github.com/magabrotheeeer/gym-manager/internal/lib/period"
)

// SubscriptionStatus статус подписки. Хранятся только active, expired,
// pending и cancelled; expiring существует лишь как вычисляемый статус.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpiring  SubscriptionStatus = "expiring"
)

// PaymentStatus статус оплаты подписки.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentFailed  PaymentStatus = "failed"
)

// ExpiringWindowDays за сколько дней до окончания подписка считается истекающей.
const ExpiringWindowDays = 7

// Subscription связывает клиента с пакетом на период [StartDate, EndDate).
// EndDate вычисляется один раз при создании и дальше не пересчитывается.
type Subscription struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	PackageID     string             `json:"package_id"`
	StartDate     time.Time          `json:"start_date"`
	EndDate       time.Time          `json:"end_date"`
	Status        SubscriptionStatus `json:"status"`
	PaymentStatus PaymentStatus      `json:"payment_status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// DaysRemaining возвращает количество целых дней от now до окончания подписки.
// Отрицательное значение означает, что подписка уже закончилась.
func (s *Subscription) DaysRemaining(now time.Time) int {
	return period.DaysBetween(now, s.EndDate)
}

// EffectiveStatus вычисляет статус подписки на момент now.
// Истечение срока важнее отмены, отмена важнее окна истечения.
func (s *Subscription) EffectiveStatus(now time.Time) SubscriptionStatus {
	days := s.DaysRemaining(now)
	switch {
	case days < 0 || !s.EndDate.After(now):
		return SubscriptionExpired
	case s.Status == SubscriptionCancelled:
		return SubscriptionCancelled
	case days <= ExpiringWindowDays:
		return SubscriptionExpiring
	default:
		return s.Status
	}
}

// IsCurrentlyActive сообщает, занимает ли подписка клиента на момент now.
// Считается только сохраненный статус active, окно истечения на это не влияет.
func (s *Subscription) IsCurrentlyActive(now time.Time) bool {
	return s.Status == SubscriptionActive && s.EndDate.After(now)
}

// SubscriptionView подписка вместе с вычисленным статусом для отдачи клиенту.
type SubscriptionView struct {
	Subscription
	EffectiveStatus SubscriptionStatus `json:"effective_status"`
	DaysRemaining   int                `json:"days_remaining"`
}

// NewSubscriptionView строит представление подписки на момент now.
func NewSubscriptionView(s *Subscription, now time.Time) SubscriptionView {
	return SubscriptionView{
		Subscription:    *s,
		EffectiveStatus: s.EffectiveStatus(now),
		DaysRemaining:   s.DaysRemaining(now),
	}
}

// SubscriptionRequest используется для приёма новой подписки из JSON-запроса.
// StartDate приходит строкой в формате YYYY-MM-DD.
type SubscriptionRequest struct {
	UserID            string        `json:"user_id" validate:"required"`
	PackageID         string        `json:"package_id" validate:"required"`
	StartDate         string        `json:"start_date" validate:"required"`
	PaymentStatus     PaymentStatus `json:"payment_status" validate:"required,oneof=paid pending failed"`
	DeliveryProductID *string       `json:"delivery_product_id,omitempty"`
}

// SubscriptionPatch частичное обновление подписки, nil-поля не меняются.
type SubscriptionPatch struct {
	StartDate     *string             `json:"start_date,omitempty"`
	EndDate       *string             `json:"end_date,omitempty"`
	Status        *SubscriptionStatus `json:"status,omitempty" validate:"omitempty,oneof=active expired pending cancelled"`
	PaymentStatus *PaymentStatus      `json:"payment_status,omitempty" validate:"omitempty,oneof=paid pending failed"`
}

// ExpiringNotice публикуется в очередь уведомлений о скором окончании подписки.
type ExpiringNotice struct {
	SubscriptionID string    `json:"subscription_id"`
	TraineeName    string    `json:"trainee_name"`
	Email          string    `json:"email"`
	PackageName    string    `json:"package_name"`
	EndDate        time.Time `json:"end_date"`
	DaysRemaining  int       `json:"days_remaining"`
}

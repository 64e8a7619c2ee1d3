// Package models содержит доменные модели спортзала: пользователей, пакеты,
// подписки, товары и финансовые операции, а также структуры запросов,
// которые приходят из HTTP-слоя до валидации.
package models

import "time"

// Роли системных пользователей.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Пол пользователя.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// User описывает как клиента зала (trainee), так и сотрудника с доступом в систему.
// Клиент отличается от сотрудника только флагом IsSystemUser.
type User struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            *string    `json:"email,omitempty"`
	Role             string     `json:"role"`
	Gender           string     `json:"gender"`
	Phone            string     `json:"phone"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	EmergencyContact string     `json:"emergency_contact"`
	Address          string     `json:"address"`
	Notes            *string    `json:"notes,omitempty"`
	Username         *string    `json:"username,omitempty"`
	PasswordHash     *string    `json:"-"` // никогда не отдаётся наружу
	IsSystemUser     bool       `json:"is_system_user"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsTrainee сообщает, является ли пользователь клиентом зала.
func (u *User) IsTrainee() bool {
	return !u.IsSystemUser
}

// TraineeRequest используется для приёма данных клиента из JSON-запроса.
// Дата рождения приходит строкой в формате YYYY-MM-DD.
type TraineeRequest struct {
	Name             string  `json:"name" validate:"required"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Gender           string  `json:"gender" validate:"required,oneof=male female"`
	Phone            string  `json:"phone" validate:"required"`
	BirthDate        *string `json:"birth_date,omitempty"`
	EmergencyContact string  `json:"emergency_contact"`
	Address          string  `json:"address"`
	Notes            *string `json:"notes,omitempty"`
}

// StaffRequest используется для создания и изменения сотрудников.
// При обновлении пустой Password означает, что пароль не меняется.
type StaffRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Role     string  `json:"role" validate:"required,oneof=admin user"`
	Gender   string  `json:"gender" validate:"required,oneof=male female"`
	Phone    string  `json:"phone"`
	Username string  `json:"username" validate:"required,alphanum,min=3"`
	Password string  `json:"password,omitempty" validate:"omitempty,min=6"`
}

// Credentials содержит логин и пароль для входа в систему.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Principal описывает аутентифицированного сотрудника, выполняющего запрос.
type Principal struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

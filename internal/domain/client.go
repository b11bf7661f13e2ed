package domain

import "time"

// ClientRecord é um cliente da agência, dono de auditorias salvas
type ClientRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Website   *string   `json:"website"`
	Notes     *string   `json:"notes"`
	UserID    int       `json:"user_id"`
	AccountID *string   `json:"account_id"`
	AutoSync  bool      `json:"auto_sync"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateClientRequest struct {
	ID        string  `json:"id"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Website   *string `json:"website"`
	Notes     *string `json:"notes"`
	AccountID *string `json:"account_id"`
	AutoSync  *bool   `json:"auto_sync"`
}

package dto

import "time"

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      any       `json:"user"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type PageResponse struct {
	OK       bool `json:"ok"`
	Data     any  `json:"data"`
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
}

type CountResponse struct {
	Count int `json:"count"`
}

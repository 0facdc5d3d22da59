package dto

import (
	"time"

	"github.com/perimetra/devscope/internal/domain/models"
)

// LoginRequest is the POST /v1/auth/login body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AccountDTO is an authorized account as presented to the client.
type AccountDTO struct {
	AccountID   string `json:"accountId"`
	AccountName string `json:"accountName"`
}

// LoginResponse is the data payload of a successful login.
type LoginResponse struct {
	Token    string       `json:"token"`
	Expires  time.Time    `json:"expires"`
	Accounts []AccountDTO `json:"accounts"`
}

// NewLoginResponse builds the login payload from the issued token and the
// principal's accounts. An empty account list is a valid outcome: the token
// is issued and authorizes nothing.
func NewLoginResponse(token *models.IssuedToken, accounts []models.Account) *LoginResponse {
	out := make([]AccountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountDTO{AccountID: a.ID, AccountName: a.Name})
	}
	return &LoginResponse{
		Token:    token.Value,
		Expires:  token.ExpiresAt.UTC(),
		Accounts: out,
	}
}

package handlers

import (
	"github.com/medbay/medbay-api/internal/auth"
	"github.com/medbay/medbay-api/internal/services"
	"github.com/medbay/medbay-api/internal/store"
)

// Handler carries the collaborators every request handler needs.
type Handler struct {
	Users    store.UserStore
	Reports  store.ReportStore
	Tokens   *auth.TokenService
	Audit    *services.AuditLog
	AdminKey string
}

func NewHandler(users store.UserStore, reports store.ReportStore, tokens *auth.TokenService, audit *services.AuditLog, adminKey string) *Handler {
	return &Handler{
		Users:    users,
		Reports:  reports,
		Tokens:   tokens,
		Audit:    audit,
		AdminKey: adminKey,
	}
}

package handlers

import (
	"github.com/Freeeeeet/lms_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService     *service.UserService
	catalogService  *service.CatalogService
	grantService    *service.GrantService
	resolver        *service.AccessResolver
	progressService *service.ProgressService
	clock           service.Clock
	logger          *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	catalogService *service.CatalogService,
	grantService *service.GrantService,
	resolver *service.AccessResolver,
	progressService *service.ProgressService,
	clock service.Clock,
	logger *zap.Logger,
) *Handlers {
	if clock == nil {
		clock = service.SystemClock
	}
	return &Handlers{
		userService:     userService,
		catalogService:  catalogService,
		grantService:    grantService,
		resolver:        resolver,
		progressService: progressService,
		clock:           clock,
		logger:          logger,
	}
}

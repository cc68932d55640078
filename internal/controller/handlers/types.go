package handlers

import (
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/booking_bot/internal/controller/state"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд и текстовых диалогов.
// Зависимости общие с callback-обработчиками, чтобы экраны строились одинаково.
type Handlers struct {
	deps         *callbacktypes.Handler
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(deps *callbacktypes.Handler, stateManager *state.Manager, logger *zap.Logger) *Handlers {
	return &Handlers{
		deps:         deps,
		stateManager: stateManager,
		logger:       logger,
	}
}

package state

import (
	"sync"

	"github.com/Freeeeeet/booking_bot/internal/wizard"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu      sync.RWMutex
	states  map[int64]*UserData      // telegramID -> UserData
	wizards map[int64]*wizard.Wizard // telegramID -> мастер записи
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states:  make(map[int64]*UserData),
		wizards: make(map[int64]*wizard.Wizard),
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.states[telegramID]; !exists {
		if state == StateNone {
			return
		}
		sm.states[telegramID] = &UserData{
			State: state,
			Data:  make(map[string]interface{}),
		}
		return
	}
	sm.states[telegramID].State = state
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (interface{}, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// SetData устанавливает временные данные пользователя
func (sm *Manager) SetData(telegramID int64, key string, value interface{}) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.states[telegramID]; !exists {
		sm.states[telegramID] = &UserData{
			State: StateNone,
			Data:  make(map[string]interface{}),
		}
	}
	sm.states[telegramID].Data[key] = value
}

// ClearState очищает состояние диалога и его данные.
// Мастер записи при этом сохраняется.
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// ResetDialog сбрасывает только состояние диалога, данные (например фильтры) остаются
func (sm *Manager) ResetDialog(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if userData, exists := sm.states[telegramID]; exists {
		userData.State = StateNone
	}
}

// GetAllData получает все временные данные пользователя
func (sm *Manager) GetAllData(telegramID int64) map[string]interface{} {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		dataCopy := make(map[string]interface{}, len(userData.Data))
		for k, v := range userData.Data {
			dataCopy[k] = v
		}
		return dataCopy
	}
	return nil
}

// Wizard возвращает мастер записи пользователя, создавая его при первом обращении
func (sm *Manager) Wizard(telegramID int64) *wizard.Wizard {
	sm.mu.RLock()
	w, ok := sm.wizards[telegramID]
	sm.mu.RUnlock()
	if ok {
		return w
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if w, ok := sm.wizards[telegramID]; ok {
		return w
	}
	w = wizard.New(telegramID)
	sm.wizards[telegramID] = w
	return w
}

// DropWizard удаляет мастер записи пользователя. Мастер, который сейчас
// отправляет запись, остаётся на месте; тогда возвращается false.
func (sm *Manager) DropWizard(telegramID int64) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	w, ok := sm.wizards[telegramID]
	if !ok {
		return true
	}
	if w.Busy() {
		return false
	}
	delete(sm.wizards, telegramID)
	return true
}

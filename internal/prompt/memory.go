package prompt

import (
	"context"
	"sync"

	"github.com/user/kgharvest/internal/domain"
)

// MemoryRegistry keeps prompts in process memory.
type MemoryRegistry struct {
	mu      sync.RWMutex
	prompts map[string]string
}

// NewMemoryRegistry returns a registry seeded with prompts.
func NewMemoryRegistry(prompts map[string]string) *MemoryRegistry {
	m := &MemoryRegistry{prompts: make(map[string]string, len(prompts))}
	for k, v := range prompts {
		m.prompts[k] = v
	}
	return m
}

func (m *MemoryRegistry) GetTemplate(_ context.Context, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.prompts[name]
	if !ok {
		return "", &domain.PromptNotFoundError{Name: name}
	}
	return text, nil
}

func (m *MemoryRegistry) SetPrompt(_ context.Context, name, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts[name] = text
	return nil
}

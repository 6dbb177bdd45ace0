// Package clipboard provides the text clipboard used by copy, cut and paste.
package clipboard

import "sync"

// Clipboard stores one piece of text, implemented by the host environment.
type Clipboard interface {
	SetContent(text string) error
	Content() (string, error)
}

// Memory is a process-local clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory returns an empty in-memory clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SetContent(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

func (m *Memory) Content() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

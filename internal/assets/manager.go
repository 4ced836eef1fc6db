// Package assets loads the scene's external resources: gradient textures,
// the HDR environment map and the label font. A Manager tracks every item
// so the loading screen can report progress.
package assets

import "sync"

// Manager counts started and finished items, like a loading manager.
//
// Hooks run on whichever goroutine finishes an item. Loaders in this package
// finish items on the render loop.
type Manager struct {
	mu     sync.Mutex
	loaded int
	total  int
	failed []string

	OnStart    func(url string, loaded, total int)
	OnProgress func(url string, loaded, total int)
	OnLoad     func()
	OnError    func(url string)
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// ItemStart registers one more item to wait for.
func (m *Manager) ItemStart(url string) {
	m.mu.Lock()
	m.total++
	loaded, total := m.loaded, m.total
	onStart := m.OnStart
	m.mu.Unlock()

	if onStart != nil {
		onStart(url, loaded, total)
	}
}

// ItemEnd marks an item finished, successfully or not. OnLoad runs when the
// last outstanding item ends.
func (m *Manager) ItemEnd(url string) {
	m.mu.Lock()
	m.loaded++
	loaded, total := m.loaded, m.total
	onProgress, onLoad := m.OnProgress, m.OnLoad
	m.mu.Unlock()

	if onProgress != nil {
		onProgress(url, loaded, total)
	}
	if loaded == total && onLoad != nil {
		onLoad()
	}
}

// ItemError records a failed item. The caller still calls ItemEnd.
func (m *Manager) ItemError(url string) {
	m.mu.Lock()
	m.failed = append(m.failed, url)
	onError := m.OnError
	m.mu.Unlock()

	if onError != nil {
		onError(url)
	}
}

// Counts returns finished and registered items.
func (m *Manager) Counts() (loaded, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded, m.total
}

// Progress returns the finished fraction in [0,1]. With nothing registered
// it is 1.
func (m *Manager) Progress() float64 {
	loaded, total := m.Counts()
	if total == 0 {
		return 1
	}
	return float64(loaded) / float64(total)
}

// Percent returns Progress as a whole percentage.
func (m *Manager) Percent() int {
	return int(m.Progress() * 100)
}

// Done reports whether every registered item has ended.
func (m *Manager) Done() bool {
	loaded, total := m.Counts()
	return loaded == total
}

// Failed returns the urls that reported errors.
func (m *Manager) Failed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.failed...)
}

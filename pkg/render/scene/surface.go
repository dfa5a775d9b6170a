package scene

import "sync"

// Surface holds the scene on display and swaps it per render pass.
type Surface struct {
	mu      sync.Mutex
	current *Scene
	passes  int
}

// Render runs build and installs its scene. The previous scene's bindings
// are released first. If build fails, the previous scene stays installed
// and its bindings stay live; Render returns it alongside the error.
func (s *Surface) Render(build func() (*Scene, error)) (*Scene, error) {
	next, err := build()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return s.current, err
	}
	if s.current != nil {
		s.current.Release()
	}
	s.current = next
	s.passes++
	return next, nil
}

// Current returns the installed scene, or nil before the first pass.
func (s *Surface) Current() *Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Passes returns how many render passes succeeded.
func (s *Surface) Passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

// Clear releases and removes the installed scene.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Release()
		s.current = nil
	}
}

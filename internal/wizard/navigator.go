package wizard

import "sync"

// Navigator receives the wizard's page side effects.
type Navigator interface {
	ScrollToTop()
	NavigateTo(path string)
}

// Recorder is a Navigator that buffers effects until the next Drain, so an
// HTTP handler can hand them to the browser with its response.
type Recorder struct {
	mu       sync.Mutex
	scrolled bool
	target   string
}

func (r *Recorder) ScrollToTop() {
	r.mu.Lock()
	r.scrolled = true
	r.mu.Unlock()
}

func (r *Recorder) NavigateTo(path string) {
	r.mu.Lock()
	r.target = path
	r.mu.Unlock()
}

// Effects are the side effects requested since the last drain.
type Effects struct {
	ScrollToTop bool   `json:"scrollToTop"`
	NavigateTo  string `json:"navigateTo,omitempty"`
}

// Drain returns and clears the buffered effects.
func (r *Recorder) Drain() Effects {
	r.mu.Lock()
	defer r.mu.Unlock()
	effects := Effects{ScrollToTop: r.scrolled, NavigateTo: r.target}
	r.scrolled, r.target = false, ""
	return effects
}

package listing

import "sync"

// StaticLocation is a Location backed by a string, used when the query
// arrives with a request and the replaced query is returned to the browser.
type StaticLocation struct {
	mu       sync.Mutex
	query    string
	replaced int
}

func NewStaticLocation(rawQuery string) *StaticLocation {
	return &StaticLocation{query: rawQuery}
}

func (l *StaticLocation) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

func (l *StaticLocation) ReplaceQuery(rawQuery string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = rawQuery
	l.replaced++
}

// Navigate simulates an external navigation (back button or link).
func (l *StaticLocation) Navigate(rawQuery string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = rawQuery
}

// Replacements counts ReplaceQuery calls.
func (l *StaticLocation) Replacements() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replaced
}

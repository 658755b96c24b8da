package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Navigator moves the page to another location
type Navigator interface {
	Navigate(url string)
}

// RecordingNavigator remembers every location it was sent to
type RecordingNavigator struct {
	mu     sync.Mutex
	visits []string
	done   chan struct{}
}

func NewRecordingNavigator() *RecordingNavigator {
	return &RecordingNavigator{done: make(chan struct{})}
}

func (n *RecordingNavigator) Navigate(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visits = append(n.visits, url)
	if len(n.visits) == 1 {
		close(n.done)
	}
}

// Visits returns every location in order
func (n *RecordingNavigator) Visits() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.visits))
	copy(out, n.visits)
	return out
}

// Last returns the most recent location, or "" when none
func (n *RecordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.visits) == 0 {
		return ""
	}
	return n.visits[len(n.visits)-1]
}

// Navigated is closed on the first navigation
func (n *RecordingNavigator) Navigated() <-chan struct{} {
	return n.done
}

// WriterNavigator prints the absolute location instead of opening it
type WriterNavigator struct {
	w       io.Writer
	baseURL string
}

func NewWriterNavigator(w io.Writer, baseURL string) *WriterNavigator {
	return &WriterNavigator{w: w, baseURL: strings.TrimRight(baseURL, "/")}
}

func (n *WriterNavigator) Navigate(url string) {
	if strings.HasPrefix(url, "/") {
		url = n.baseURL + url
	}
	fmt.Fprintf(n.w, "→ %s\n", url)
}

package storefront

import "sync"

// TokenSource is the single place the anti-forgery token is read from.
type TokenSource interface {
	Token() string
}

// StaticToken is a token fixed at construction.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// PageToken holds the token issued with the current page. It is replaced
// when a page is (re)loaded.
type PageToken struct {
	mu    sync.RWMutex
	token string
}

func NewPageToken(token string) *PageToken {
	return &PageToken{token: token}
}

func (p *PageToken) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

func (p *PageToken) Set(token string) {
	p.mu.Lock()
	p.token = token
	p.mu.Unlock()
}

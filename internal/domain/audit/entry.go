package audit

import "time"

// Entry records one admin mutation.
type Entry struct {
	ID        string
	ActorID   int64
	ActorRole string
	Method    string
	Route     string // route template, e.g. /api/admin/products/:id
	Path      string // concrete request path
	Status    int
	ClientIP  string
	RequestID string
	CreatedAt time.Time
}

// Filter narrows audit listings.
type Filter struct {
	ActorID int64
	From    *time.Time
	To      *time.Time
	Page    int64
	Limit   int64
}

package model

import (
	"net/url"
	"sort"
	"strings"
)

// Attempt describes one navigation attempt: where the user is trying to go
// and the request parameters that came with it. Attempts are value objects
// handed to guards; guards must not retain or mutate them.
type Attempt struct {
	Path   string            // target path, e.g. "/dashboard/settings"
	Query  map[string]string // query parameters of the attempt
	Params map[string]string // path parameters captured by route matching
}

// NewAttempt creates an attempt for a path with no query or path parameters.
func NewAttempt(path string) Attempt {
	return Attempt{Path: path}
}

// Location returns the full attempted location: path plus encoded query
// string, with keys in sorted order so the result is deterministic.
func (a Attempt) Location() string {
	if len(a.Query) == 0 {
		return a.Path
	}
	keys := make([]string, 0, len(a.Query))
	for k := range a.Query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(a.Path)
	sb.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(a.Query[k]))
	}
	return sb.String()
}

// QueryValue returns the query parameter for key, or "" when absent.
func (a Attempt) QueryValue(key string) string {
	return a.Query[key]
}

// Param returns the captured path parameter for key, or "" when absent.
func (a Attempt) Param(key string) string {
	return a.Params[key]
}

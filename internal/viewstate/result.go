// Package viewstate holds what one page load fetched: a typed result per
// fetch and the user's selections.
package viewstate

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

// DetailedError is implemented by errors that carry a backend-provided
// explanation worth showing to the user.
type DetailedError interface {
	error
	UserDetail() string
}

// Result is the state of one fetch. Only the fields of its status are set.
type Result[T any] struct {
	Status Status
	Data   T
	Err    error
	what   string
}

func Loading[T any]() Result[T] {
	return Result[T]{Status: StatusLoading}
}

func Ready[T any](v T) Result[T] {
	return Result[T]{Status: StatusReady, Data: v}
}

// Failed records a fetch failure for the thing named by what, e.g. "project".
func Failed[T any](what string, err error) Result[T] {
	return Result[T]{Status: StatusError, Err: err, what: what}
}

// From builds a ready or failed result from a call's return values.
func From[T any](what string, v T, err error) Result[T] {
	if err != nil {
		return Failed[T](what, err)
	}
	return Ready(v)
}

func (r Result[T]) IsReady() bool { return r.Status == StatusReady }

// Message is the static user-facing text of a failed result.
func (r Result[T]) Message() string {
	if r.Status != StatusError {
		return ""
	}
	if r.what == "" {
		return "Failed to fetch data"
	}
	return fmt.Sprintf("Failed to fetch %s", r.what)
}

// Detail is the backend explanation of a failure, if any.
func (r Result[T]) Detail() string {
	var de DetailedError
	if errors.As(r.Err, &de) {
		return de.UserDetail()
	}
	return ""
}

type resultJSON[T any] struct {
	Status Status `json:"status"`
	Data   *T     `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	status := r.Status
	if status == "" {
		status = StatusLoading
	}
	out := resultJSON[T]{Status: status}
	switch status {
	case StatusReady:
		out.Data = &r.Data
	case StatusError:
		out.Error = r.Message()
		out.Detail = r.Detail()
	}
	return json.Marshal(out)
}

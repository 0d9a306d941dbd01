package models

import (
    "encoding/json"
    "errors"
    "strings"
    "time"
)

type Status string

const (
    StatusPending  Status = "PENDING"
    StatusRunning  Status = "RUNNING"
    StatusSuccess  Status = "SUCCESS"
    StatusFailed   Status = "FAILED"
)

// LinkNotWorking is what the model is told to return for "Institute Website"
// when it cannot find a working page.
const LinkNotWorking = "Link not working"

// ErrInvalidInput is returned when a query has no usable criteria.
var ErrInvalidInput = errors.New("please provide an institute, department, or keyword to start the search")

// Query holds the user's search criteria. Any subset may be empty, but not all of them.
type Query struct {
    Institute  string `json:"institute,omitempty"`
    Department string `json:"department,omitempty"`
    Keyword    string `json:"keyword,omitempty"`
}

func (q Query) Validate() error {
    if strings.TrimSpace(q.Institute) == "" && strings.TrimSpace(q.Department) == "" && strings.TrimSpace(q.Keyword) == "" {
        return ErrInvalidInput
    }
    return nil
}

// Professor is one record streamed back by the model, keyed the way the model writes it.
// Keys the model adds beyond the known ones are kept in Extra and written back out
// alongside them.
type Professor struct {
    Name              string  `json:"Name"`
    Designation       string  `json:"Designation"`
    Institute         string  `json:"Institute,omitempty"`
    Email             string  `json:"Email,omitempty"`
    LinkedIn          string  `json:"LinkedIn,omitempty"`
    ResearchInterests string  `json:"Research Interests,omitempty"`
    Outreach          *string `json:"Internship/Outreach"`
    Website           string  `json:"Institute Website,omitempty"`
    Summary           string  `json:"Summary,omitempty"`

    Extra map[string]json.RawMessage `json:"-"`
}

// Valid reports whether both mandatory fields are present.
func (p Professor) Valid() bool {
    return p.Name != "" && p.Designation != ""
}

type Search struct {
    ID         string      `json:"id"`
    Query      Query       `json:"query"`
    Status     Status      `json:"status"`
    Professors []Professor `json:"professors"`
    Skipped    int         `json:"skipped"`
    Error      string      `json:"error,omitempty"`
    CreatedAt  time.Time   `json:"created_at"`
    UpdatedAt  time.Time   `json:"updated_at"`
}

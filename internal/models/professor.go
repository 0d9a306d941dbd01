package models

import (
    "bytes"
    "encoding/json"
    "errors"
    "strings"
)

// ErrMissingFields is returned by ParseProfessor when Name or Designation is absent,
// empty, or not a string.
var ErrMissingFields = errors.New("missing Name or Designation")

// ParseProfessor decodes one streamed line. Name and Designation must appear under
// exactly those keys as non-empty strings. The optional keys are read leniently: a
// list of strings is joined with ", " and any other non-string value keeps its JSON
// text. Unrecognised keys land in Extra.
func ParseProfessor(data []byte) (Professor, error) {
    var raw map[string]json.RawMessage
    if err := json.Unmarshal(data, &raw); err != nil { return Professor{}, err }

    var p Professor
    var ok bool
    if p.Name, ok = strictString(raw["Name"]); !ok || p.Name == "" { return Professor{}, ErrMissingFields }
    if p.Designation, ok = strictString(raw["Designation"]); !ok || p.Designation == "" { return Professor{}, ErrMissingFields }

    optional := map[string]*string{
        "Institute":          &p.Institute,
        "Email":              &p.Email,
        "LinkedIn":           &p.LinkedIn,
        "Research Interests": &p.ResearchInterests,
        "Institute Website":  &p.Website,
        "Summary":            &p.Summary,
    }
    for key, v := range raw {
        switch key {
        case "Name", "Designation":
        case "Internship/Outreach":
            if s, ok := looseString(v); ok { p.Outreach = &s }
        default:
            if dst, known := optional[key]; known {
                *dst, _ = looseString(v)
                continue
            }
            if p.Extra == nil { p.Extra = map[string]json.RawMessage{} }
            p.Extra[key] = v
        }
    }
    return p, nil
}

func strictString(raw json.RawMessage) (string, bool) {
    if raw == nil { return "", false }
    var s string
    if isNull(raw) || json.Unmarshal(raw, &s) != nil { return "", false }
    return s, true
}

// looseString reports false only for JSON null.
func looseString(raw json.RawMessage) (string, bool) {
    if isNull(raw) { return "", false }
    var s string
    if json.Unmarshal(raw, &s) == nil { return s, true }
    var list []string
    if json.Unmarshal(raw, &list) == nil { return strings.Join(list, ", "), true }
    var buf bytes.Buffer
    if json.Compact(&buf, raw) == nil { return buf.String(), true }
    return string(raw), true
}

func isNull(raw json.RawMessage) bool {
    return string(bytes.TrimSpace(raw)) == "null"
}

// MarshalJSON writes the known fields plus anything kept in Extra. Known keys win.
func (p Professor) MarshalJSON() ([]byte, error) {
    type plain Professor
    b, err := json.Marshal(plain(p))
    if err != nil || len(p.Extra) == 0 { return b, err }
    var known map[string]json.RawMessage
    if err := json.Unmarshal(b, &known); err != nil { return nil, err }
    merged := make(map[string]json.RawMessage, len(known)+len(p.Extra))
    for k, v := range p.Extra { merged[k] = v }
    for k, v := range known { merged[k] = v }
    return json.Marshal(merged)
}

package llm

import (
    "context"
    "time"
)

// sampleStream is two professors cut at arbitrary offsets, the way a real model
// stream arrives.
var sampleStream = []string{
    `{"Name": "Dr. Asha Rao", "Designation": "Associate Professor, Computer Sci`,
    `ence", "Institute": "IIT Example", "Email": "asha@example.edu", "LinkedIn": null, "Research Interests": "Distributed systems", "Internship/Outreach": null, "Institute Website": "Link not working", "Summary": "Works on consensus protocols."}` + "\n" + `{"Name": "Dr. Vikram Sen",`,
    ` "Designation": "Professor, Electrical Engineering", "Institute": "NIT Example", "Research Interests": "Power electronics", "Internship/Outreach": "Summer research interns", "Summary": "Leads the power electronics lab."}`,
}

// MockClient is used when no real provider is configured. It replays Chunks
// (or a built-in sample) and then returns Err.
type MockClient struct {
    Chunks []string
    Err    error
    Delay  time.Duration
}

func (m *MockClient) Model() string { return "mock" }

func (m *MockClient) GenerateTextStream(ctx context.Context, prompt string, onDelta func(chunk string) error) error {
    chunks := m.Chunks
    if chunks == nil { chunks = sampleStream }
    for _, c := range chunks {
        if m.Delay > 0 {
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(m.Delay):
            }
        }
        if err := ctx.Err(); err != nil { return err }
        if err := onDelta(c); err != nil { return err }
    }
    return m.Err
}

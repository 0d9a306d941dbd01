package prompt

import (
    "fmt"
    "strings"

    "github.com/example/outreach-finder/internal/models"
)

const (
    anyInstitute  = "Any relevant IIT/NIT"
    anyDepartment = "Any relevant department"
    noKeyword     = "Not specified"
)

// Build renders the instruction sent to the model for one search.
func Build(q models.Query) string {
    return fmt.Sprintf(`You are a smart outreach automation assistant. Your task is to fetch details of professors at selected IITs/NITs and stream them as you find them.

User's Search Criteria:
- Institute: %s
- Department/Branch: %s
- Research Keyword/Topic: %s

Rules:
- Find professors matching the user's criteria.
- If a keyword is provided, filter professors whose research aligns with the keyword.
- For each professor, find all the required details.
- CRITICAL: If you cannot find a valid, working webpage for the professor or their department, you MUST return %q for the "Institute Website" field. Do not invent links.
- CRITICAL: Return each professor found as a separate, complete JSON object on a new line. Do not wrap them in a JSON array. Each line must be a valid JSON object.
- If no professors are found, return nothing.

Example of a single line of output for one professor:
{"Name": "Dr. Example Name", "Designation": "Professor, Computer Science", "Institute": "IIT Example", "Email": "prof@example.com", "LinkedIn": "https://linkedin.com/in/prof", "Research Interests": "AI, ML", "Internship/Outreach": null, "Institute Website": "https://example.edu/prof", "Summary": "A summary of work."}
`,
        orDefault(q.Institute, anyInstitute),
        orDefault(q.Department, anyDepartment),
        orDefault(q.Keyword, noKeyword),
        models.LinkNotWorking,
    )
}

func orDefault(v, def string) string {
    if v = strings.TrimSpace(v); v != "" { return v }
    return def
}

package prompt

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/example/outreach-finder/internal/models"
)

func TestBuildUsesCriteria(t *testing.T) {
    p := Build(models.Query{Institute: "IIT Madras", Department: "Electrical", Keyword: "VLSI"})
    assert.Contains(t, p, "- Institute: IIT Madras")
    assert.Contains(t, p, "- Department/Branch: Electrical")
    assert.Contains(t, p, "- Research Keyword/Topic: VLSI")
    assert.NotContains(t, p, anyInstitute)
}

func TestBuildFallsBackForEmptyCriteria(t *testing.T) {
    p := Build(models.Query{Keyword: "quantum computing"})
    assert.Contains(t, p, "- Institute: "+anyInstitute)
    assert.Contains(t, p, "- Department/Branch: "+anyDepartment)
    assert.Contains(t, p, "- Research Keyword/Topic: quantum computing")

    p = Build(models.Query{Institute: "NIT Trichy", Keyword: "   "})
    assert.Contains(t, p, "- Research Keyword/Topic: "+noKeyword)
}

func TestBuildCarriesOutputRules(t *testing.T) {
    p := Build(models.Query{Institute: "IIT Kanpur"})
    assert.Contains(t, p, `"Link not working"`)
    assert.Contains(t, p, "Do not wrap them in a JSON array")
    assert.Contains(t, p, "separate, complete JSON object on a new line")
}

package template

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
	"github.com/fyerfyer/assignment-doc-engine/internal/ooxml"
)

// buildTemplate 构造一个带占位符文本的最小模板文件
func buildTemplate(t *testing.T, lines ...string) []byte {
	t.Helper()
	builder := ooxml.NewBuilder()
	for _, line := range lines {
		builder.AddText(line)
	}
	data, err := builder.Bytes()
	require.NoError(t, err)
	return data
}

func mergedDocumentXML(t *testing.T, data []byte) string {
	t.Helper()
	pkg, err := ooxml.OpenPackage(data)
	require.NoError(t, err)
	docXML, err := pkg.DocumentXML()
	require.NoError(t, err)
	return docXML
}

func TestMergeTemplateOnly(t *testing.T) {
	tpl := buildTemplate(t, "{college_name}", "{student_name} - {registration_no}")
	data := &models.AssignmentData{
		StudentName:    "Jane Banda",
		RegistrationNo: "BSC-01-23",
		SubmissionDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	}

	result, err := NewMerger().Merge(tpl, data)
	require.NoError(t, err)
	assert.False(t, result.ContentAppended)
	assert.Empty(t, result.Warning)

	docXML := mergedDocumentXML(t, result.Document)
	assert.Contains(t, docXML, DefaultCollegeName)
	assert.Contains(t, docXML, "Jane Banda - BSC-01-23")
	assert.NotContains(t, docXML, "{student_name}")
	// 输出仍是单一body
	assert.Equal(t, 1, strings.Count(docXML, "</w:body>"))
}

func TestMergeAppendsGeneratedContent(t *testing.T) {
	tpl := buildTemplate(t, "Cover: {student_name}")
	data := &models.AssignmentData{
		StudentName:       "Jane Banda",
		AssignmentContent: "First generated paragraph.\n\nSecond generated paragraph.",
		References: []models.Reference{
			{Authors: "Banda, J.", Year: "2023", Title: "Go in Practice", Source: "Tech Press"},
		},
	}

	result, err := NewMerger().Merge(tpl, data)
	require.NoError(t, err)
	assert.True(t, result.ContentAppended)
	assert.Empty(t, result.Warning)

	docXML := mergedDocumentXML(t, result.Document)
	assert.Contains(t, docXML, "Cover: Jane Banda")
	assert.Contains(t, docXML, "First generated paragraph.")
	assert.Contains(t, docXML, "Second generated paragraph.")
	assert.Contains(t, docXML, "REFERENCES")
	assert.Contains(t, docXML, "Banda, J. (2023). Go in Practice. Tech Press.")
	// 模板内容在前，追加内容在后
	assert.Less(t,
		strings.Index(docXML, "Cover: Jane Banda"),
		strings.Index(docXML, "First generated paragraph."))
	// 合并后仍是单一body
	assert.Equal(t, 1, strings.Count(docXML, "<w:body>"))
	assert.Equal(t, 1, strings.Count(docXML, "</w:body>"))
}

func TestMergeUnresolvedPlaceholderFails(t *testing.T) {
	tpl := buildTemplate(t, "{student_name}", "{custom_motto}")
	data := &models.AssignmentData{StudentName: "Jane"}

	_, err := NewMerger().Merge(tpl, data)
	require.Error(t, err)

	var renderErr *models.TemplateRenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, []string{"{custom_motto}"}, renderErr.Unresolved)
}

func TestMergeExtraFieldResolvesPlaceholder(t *testing.T) {
	tpl := buildTemplate(t, "{custom_motto}")
	data := &models.AssignmentData{
		Extra: map[string]interface{}{"custom_motto": "Knowledge & Wisdom"},
	}

	result, err := NewMerger().Merge(tpl, data)
	require.NoError(t, err)
	assert.Contains(t, mergedDocumentXML(t, result.Document), "Knowledge &amp; Wisdom")
}

func TestMergeEmptyTemplate(t *testing.T) {
	_, err := NewMerger().Merge(nil, &models.AssignmentData{})
	assert.ErrorIs(t, err, models.ErrEmptyTemplate)

	_, err = NewMerger().Merge([]byte("not a docx archive"), &models.AssignmentData{})
	assert.ErrorIs(t, err, models.ErrEmptyTemplate)
}

func TestMergeDefaultCollegeNameOption(t *testing.T) {
	tpl := buildTemplate(t, "{college_name}")

	result, err := NewMerger(WithDefaultCollegeName("MZUZU UNIVERSITY")).
		Merge(tpl, &models.AssignmentData{})
	require.NoError(t, err)
	assert.Contains(t, mergedDocumentXML(t, result.Document), "MZUZU UNIVERSITY")
}

func TestMergeDegradeResult(t *testing.T) {
	phase1 := []byte("template bytes")
	result := NewMerger().degrade(phase1, errors.New("splice failed"))

	assert.Equal(t, phase1, result.Document)
	assert.False(t, result.ContentAppended)
	assert.Contains(t, result.Warning, "splice failed")
}

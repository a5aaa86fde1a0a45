package ooxml

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
)

func buildDoc(t *testing.T, texts ...string) []byte {
	t.Helper()
	b := NewBuilder()
	for _, text := range texts {
		b.AddText(text)
	}
	data, err := b.Bytes()
	require.NoError(t, err)
	return data
}

func TestSpliceBodyAppendsFragment(t *testing.T) {
	base := buildDoc(t, "cover page content")
	fragment := buildDoc(t, "generated body text")

	merged, err := SpliceBody(base, fragment)
	require.NoError(t, err)

	pkg, err := OpenPackage(merged)
	require.NoError(t, err)
	docXML, err := pkg.DocumentXML()
	require.NoError(t, err)

	assert.Contains(t, docXML, "cover page content")
	assert.Contains(t, docXML, "generated body text")
	// 拼接点插入了分页
	assert.Contains(t, docXML, `<w:br w:type="page"/>`)
	// 基底内容在追加内容之前
	assert.Less(t, strings.Index(docXML, "cover page content"), strings.Index(docXML, "generated body text"))

	assert.Equal(t, 1, countBodyOpen(docXML))
	assert.Equal(t, 1, strings.Count(docXML, "</w:body>"))
}

func TestSpliceBodyStripsFragmentSectPr(t *testing.T) {
	base := buildDoc(t, "base")
	fragment := buildDoc(t, "appended")

	merged, err := SpliceBody(base, fragment)
	require.NoError(t, err)

	pkg, err := OpenPackage(merged)
	require.NoError(t, err)
	docXML, err := pkg.DocumentXML()
	require.NoError(t, err)

	// fragment自己的sectPr不能跟着进来，文档只保留基底的那份
	assert.Equal(t, 1, strings.Count(docXML, "<w:sectPr"))
}

func TestSpliceBodyRejectsStrayCloseTag(t *testing.T) {
	base := buildDoc(t, "base")

	// 人为构造body内带多余闭合标签的片段
	strayXML := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>bad</w:t></w:r></w:p></w:body><w:p/></w:body></w:document>`
	fragment := buildZip(t, map[string]string{
		DocumentPartName: strayXML,
	})

	_, err := SpliceBody(base, fragment)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrBodyTagMismatch))
}

func TestSpliceBodyMissingDocumentPart(t *testing.T) {
	base := buildDoc(t, "base")
	fragment := buildZip(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
	})

	_, err := SpliceBody(base, fragment)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMissingDocumentPart))
}

func TestSpliceBodyInvalidArchive(t *testing.T) {
	_, err := SpliceBody([]byte("not a zip"), []byte("also not a zip"))
	assert.Error(t, err)
}

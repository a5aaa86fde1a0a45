package ooxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderProducesValidPackage(t *testing.T) {
	b := NewBuilder()
	b.AddText("Hello world")
	b.AddParagraph(Paragraph{
		Style: "Heading1",
		Runs:  []Run{{Text: "INTRODUCTION", Bold: true}},
	})

	data, err := b.Bytes()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	pkg, err := OpenPackage(data)
	require.NoError(t, err)
	assert.True(t, pkg.HasPart("[Content_Types].xml"))
	assert.True(t, pkg.HasPart("word/styles.xml"))

	docXML, err := pkg.DocumentXML()
	require.NoError(t, err)
	assert.Contains(t, docXML, "Hello world")
	assert.Contains(t, docXML, "INTRODUCTION")
	assert.Contains(t, docXML, `<w:pStyle w:val="Heading1"/>`)
	assert.Equal(t, 1, countBodyOpen(docXML))
	assert.Equal(t, 1, strings.Count(docXML, "</w:body>"))
}

func TestBuilderPageGeometry(t *testing.T) {
	b := NewBuilder(
		WithFont("Arial", 11),
		WithMargins(PageMargins{Top: 0.5, Right: 1, Bottom: 0.5, Left: 1}),
		WithLineSpacing(2),
	)
	b.AddText("geometry")

	docXML := b.DocumentXML()
	// 0.5英寸 = 720缇，1英寸 = 1440缇
	assert.Contains(t, docXML, `w:top="720"`)
	assert.Contains(t, docXML, `w:left="1440"`)
	// 双倍行距 = 480
	assert.Contains(t, docXML, `w:line="480"`)
	assert.Contains(t, docXML, `w:ascii="Arial"`)
	// 11磅 = 22半磅
	assert.Contains(t, docXML, `<w:sz w:val="22"/>`)
}

func TestBuilderParagraphProperties(t *testing.T) {
	b := NewBuilder()
	b.AddParagraph(Paragraph{
		Runs:          []Run{{Text: "ref entry"}},
		HangingIndent: true,
	})
	b.AddParagraph(Paragraph{
		Runs:      []Run{{Text: "centered"}},
		Alignment: AlignCenter,
	})
	b.AddParagraph(Paragraph{
		Runs:            []Run{{Text: "new page"}},
		PageBreakBefore: true,
	})

	docXML := b.DocumentXML()
	assert.Contains(t, docXML, `<w:ind w:left="720" w:hanging="720"/>`)
	assert.Contains(t, docXML, `<w:jc w:val="center"/>`)
	assert.Contains(t, docXML, `<w:pageBreakBefore/>`)
}

func TestBuilderEscapesText(t *testing.T) {
	b := NewBuilder()
	b.AddText(`Fish & Chips <ltd> "quoted"`)

	docXML := b.DocumentXML()
	assert.Contains(t, docXML, "Fish &amp; Chips &lt;ltd&gt; &quot;quoted&quot;")
	assert.NotContains(t, docXML, "<ltd>")
}

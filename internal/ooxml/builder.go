package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// 对齐方式取值，对应w:jc的val属性
const (
	AlignLeft      = "left"
	AlignCenter    = "center"
	AlignJustified = "both"
)

// Run 段落内的一段连续文本
type Run struct {
	Text string
	Bold bool

	// Font 字体名称，空串使用文档默认字体
	Font string

	// SizeHalfPoints 字号，单位半磅(12pt = 24)，0使用文档默认字号
	SizeHalfPoints int
}

// Paragraph 待序列化的段落
type Paragraph struct {
	Runs  []Run
	Style string // 段落样式ID，例如Heading1

	Alignment       string  // 对齐方式，空串为左对齐
	LineSpacing     float64 // 行距倍数，0使用文档默认行距
	HangingIndent   bool    // 悬挂缩进，用于参考文献条目
	PageBreakBefore bool    // 段前分页
}

// PageMargins 页边距，单位英寸
type PageMargins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Builder 从零构建一个DOCX包
// 只生成最小的有效包结构：内容类型、关系表、样式表和主文档
type Builder struct {
	paragraphs []Paragraph

	font        string
	sizeHalf    int
	margins     PageMargins
	lineSpacing float64
}

// BuilderOption Builder配置选项
type BuilderOption func(*Builder)

// NewBuilder 创建一个文档构建器
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		font:        "Times New Roman",
		sizeHalf:    24, // 12pt
		margins:     PageMargins{Top: 1, Right: 1, Bottom: 1, Left: 1},
		lineSpacing: 1.5,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithFont 设置文档默认字体和字号(磅)
func WithFont(name string, sizePoints float64) BuilderOption {
	return func(b *Builder) {
		if name != "" {
			b.font = name
		}
		if sizePoints > 0 {
			b.sizeHalf = int(sizePoints * 2)
		}
	}
}

// WithMargins 设置页边距(英寸)
func WithMargins(m PageMargins) BuilderOption {
	return func(b *Builder) {
		if m.Top > 0 && m.Right > 0 && m.Bottom > 0 && m.Left > 0 {
			b.margins = m
		}
	}
}

// WithLineSpacing 设置默认行距倍数
func WithLineSpacing(spacing float64) BuilderOption {
	return func(b *Builder) {
		if spacing > 0 {
			b.lineSpacing = spacing
		}
	}
}

// AddParagraph 追加一个段落
func (b *Builder) AddParagraph(p Paragraph) {
	b.paragraphs = append(b.paragraphs, p)
}

// AddText 追加一个纯文本段落
func (b *Builder) AddText(text string) {
	b.AddParagraph(Paragraph{Runs: []Run{{Text: text}}})
}

// AddPageBreak 追加一个分页段落
func (b *Builder) AddPageBreak() {
	b.AddParagraph(Paragraph{PageBreakBefore: true})
}

// ParagraphCount 当前段落数量
func (b *Builder) ParagraphCount() int {
	return len(b.paragraphs)
}

// DefaultSizeHalfPoints 文档默认字号(半磅)
func (b *Builder) DefaultSizeHalfPoints() int {
	return b.sizeHalf
}

// inchesToTwips 英寸转二十分之一磅
func inchesToTwips(in float64) int {
	return int(in * 1440)
}

// spacingToLine 行距倍数转w:spacing的line值(单倍行距=240)
func spacingToLine(spacing float64) int {
	return int(spacing * 240)
}

// Bytes 序列化为完整的DOCX包字节
func (b *Builder) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", b.stylesXML()},
		{DocumentPartName, b.DocumentXML()},
	}

	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %v", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %v", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx archive: %v", err)
	}
	return buf.Bytes(), nil
}

// DocumentXML 生成主文档部件的XML文本
func (b *Builder) DocumentXML() string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	sb.WriteString(`<w:body>`)

	for _, p := range b.paragraphs {
		b.writeParagraph(&sb, p)
	}

	// 节属性放在body末尾，控制页面几何
	sb.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>`)
	sb.WriteString(fmt.Sprintf(`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/>`,
		inchesToTwips(b.margins.Top), inchesToTwips(b.margins.Right),
		inchesToTwips(b.margins.Bottom), inchesToTwips(b.margins.Left)))
	sb.WriteString(`</w:sectPr>`)

	sb.WriteString(`</w:body>`)
	sb.WriteString(`</w:document>`)
	return sb.String()
}

func (b *Builder) writeParagraph(sb *strings.Builder, p Paragraph) {
	sb.WriteString(`<w:p>`)

	var props strings.Builder
	if p.Style != "" {
		props.WriteString(fmt.Sprintf(`<w:pStyle w:val="%s"/>`, p.Style))
	}
	if p.PageBreakBefore {
		props.WriteString(`<w:pageBreakBefore/>`)
	}
	spacing := p.LineSpacing
	if spacing == 0 {
		spacing = b.lineSpacing
	}
	props.WriteString(fmt.Sprintf(`<w:spacing w:line="%d" w:lineRule="auto"/>`, spacingToLine(spacing)))
	if p.HangingIndent {
		props.WriteString(`<w:ind w:left="720" w:hanging="720"/>`)
	}
	if p.Alignment != "" && p.Alignment != AlignLeft {
		props.WriteString(fmt.Sprintf(`<w:jc w:val="%s"/>`, p.Alignment))
	}
	if props.Len() > 0 {
		sb.WriteString(`<w:pPr>`)
		sb.WriteString(props.String())
		sb.WriteString(`</w:pPr>`)
	}

	for _, r := range p.Runs {
		b.writeRun(sb, r)
	}
	sb.WriteString(`</w:p>`)
}

func (b *Builder) writeRun(sb *strings.Builder, r Run) {
	sb.WriteString(`<w:r>`)

	font := r.Font
	if font == "" {
		font = b.font
	}
	size := r.SizeHalfPoints
	if size == 0 {
		size = b.sizeHalf
	}

	sb.WriteString(`<w:rPr>`)
	if r.Bold {
		sb.WriteString(`<w:b/>`)
	}
	sb.WriteString(fmt.Sprintf(`<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, EscapeText(font), EscapeText(font)))
	sb.WriteString(fmt.Sprintf(`<w:sz w:val="%d"/>`, size))
	sb.WriteString(`</w:rPr>`)

	sb.WriteString(`<w:t xml:space="preserve">`)
	sb.WriteString(EscapeText(r.Text))
	sb.WriteString(`</w:t></w:r>`)
}

// stylesXML 生成最小样式表：默认字体字号加Heading1/Heading2
func (b *Builder) stylesXML() string {
	font := EscapeText(b.font)
	return xml.Header + fmt.Sprintf(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="%d"/></w:rPr></w:rPrDefault></w:docDefaults>
<w:style w:type="paragraph" w:styleId="Normal" w:default="1"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="%d"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="%d"/></w:rPr></w:style>
</w:styles>`, font, font, b.sizeHalf, b.sizeHalf+8, b.sizeHalf+4)
}

// EscapeText 转义XML文本内容
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const packageRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

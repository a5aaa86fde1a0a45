package document

import (
	"encoding/xml"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/lu4p/cat"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
	"github.com/fyerfyer/assignment-doc-engine/internal/ooxml"
)

// headingStylePattern 识别HeadingN段落样式
var headingStylePattern = regexp.MustCompile(`^Heading([1-6])$`)

// DOCXParser DOCX文档解析器
type DOCXParser struct {
	styles StyleExtractor
}

// NewDOCXParser 创建一个新的DOCX解析器，使用默认样式提取器
func NewDOCXParser() Parser {
	return &DOCXParser{styles: NewDefaultStyleExtractor()}
}

// NewDOCXParserWithStyles 创建一个使用指定样式提取器的DOCX解析器
func NewDOCXParserWithStyles(extractor StyleExtractor) Parser {
	return &DOCXParser{styles: extractor}
}

// paragraphInfo 主文档XML走查收集的一个段落
type paragraphInfo struct {
	text         string
	headingLevel int    // 0表示普通段落
	style        string // 段落样式ID
}

// Parse 解析DOCX字节并提取结构化内容
func (p *DOCXParser) Parse(data []byte) (*ParsedDocument, error) {
	pkg, err := ooxml.OpenPackage(data)
	if err != nil {
		return nil, models.NewParseError(string(DOCX), err)
	}

	docXML, err := pkg.DocumentXML()
	if err != nil {
		return nil, models.NewParseError(string(DOCX), err)
	}

	paragraphs, imageRefs, err := walkDocument(docXML)
	if err != nil {
		return nil, models.NewParseError(string(DOCX), err)
	}

	// 全文文本用通用提取器获取，只保证词内容不保证结构；
	// 提取器失败时回退用XML走查的段落文本拼接
	text, catErr := cat.FromBytes(data)
	if catErr != nil || strings.TrimSpace(text) == "" {
		text = joinParagraphs(paragraphs)
	}

	// 标题和章节边界来自同一趟XML走查，按段落下标切分
	lines := make([]string, len(paragraphs))
	var headings []HeadingInfo
	var marks []headingMark
	for i, para := range paragraphs {
		lines[i] = para.text
		if para.headingLevel > 0 && strings.TrimSpace(para.text) != "" {
			h := HeadingInfo{
				Level: para.headingLevel,
				Text:  strings.TrimSpace(para.text),
				Style: para.style,
			}
			headings = append(headings, h)
			marks = append(marks, headingMark{heading: h, line: i})
		}
	}

	sections := buildSections(lines, marks, text)

	images := resolveImages(pkg, imageRefs)

	styles, err := p.styles.Extract(pkg)
	if err != nil {
		styles = DefaultStyles()
	}

	return &ParsedDocument{
		Text:          text,
		CoverPageText: sliceCoverPage(text),
		Headings:      headings,
		Sections:      sections,
		Styles:        styles,
		Images:        images,
		Metadata: Metadata{
			PageCount:    docxPageCount(pkg),
			WordCount:    CountWords(text),
			DocumentType: DOCX,
		},
	}, nil
}

// ParseReader 从Reader解析DOCX文档
func (p *DOCXParser) ParseReader(r io.Reader) (*ParsedDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, models.NewParseError(string(DOCX), err)
	}
	return p.Parse(data)
}

// walkDocument 用DOM方式走查主文档XML
// 按文档顺序收集段落文本、标题样式和图片关系引用
func walkDocument(docXML string) ([]paragraphInfo, []string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(docXML); err != nil {
		return nil, nil, err
	}

	root := doc.Root()
	if root == nil {
		return nil, nil, models.ErrMissingDocumentPart
	}

	var paragraphs []paragraphInfo
	var imageRefs []string

	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			if child.Tag == "p" {
				paragraphs = append(paragraphs, readParagraph(child))
				collectImageRefs(child, &imageRefs)
				continue
			}
			walk(child)
		}
	}
	walk(root)

	return paragraphs, imageRefs, nil
}

// readParagraph 收集段落的文本和标题样式
func readParagraph(p *etree.Element) paragraphInfo {
	info := paragraphInfo{}

	var texts []string
	var collectText func(el *etree.Element)
	collectText = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			if child.Tag == "t" {
				texts = append(texts, child.Text())
				continue
			}
			collectText(child)
		}
	}
	collectText(p)
	info.text = strings.Join(texts, "")

	for _, pr := range p.ChildElements() {
		if pr.Tag != "pPr" {
			continue
		}
		for _, style := range pr.ChildElements() {
			if style.Tag != "pStyle" {
				continue
			}
			val := style.SelectAttrValue("w:val", "")
			if m := headingStylePattern.FindStringSubmatch(val); m != nil {
				level, _ := strconv.Atoi(m[1])
				info.headingLevel = level
				info.style = val
			}
		}
	}
	return info
}

// collectImageRefs 收集段落内所有图片关系引用
func collectImageRefs(el *etree.Element, refs *[]string) {
	for _, child := range el.ChildElements() {
		if child.Tag == "blip" {
			if rid := child.SelectAttrValue("r:embed", ""); rid != "" {
				*refs = append(*refs, rid)
			}
			continue
		}
		collectImageRefs(child, refs)
	}
}

// resolveImages 把图片关系引用解析成图片字节
// 悬空引用(关系或媒体部件不存在)静默跳过，不视为错误
func resolveImages(pkg *ooxml.Package, refs []string) []ImageInfo {
	if len(refs) == 0 {
		return nil
	}

	rels, err := pkg.Relationships()
	if err != nil {
		return nil
	}

	var images []ImageInfo
	for _, rid := range refs {
		target := rels.Target(rid)
		if target == "" {
			continue
		}
		data, err := pkg.MediaPart(target)
		if err != nil {
			continue
		}
		images = append(images, ImageInfo{
			Data:     data,
			Format:   ooxml.ImageFormat(target),
			Position: len(images),
		})
	}
	return images
}

// joinParagraphs 把段落文本拼成全文，作为通用提取器的回退
func joinParagraphs(paragraphs []paragraphInfo) string {
	var sb strings.Builder
	for _, para := range paragraphs {
		sb.WriteString(para.text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// appProperties docProps/app.xml中关心的字段
type appProperties struct {
	Pages int `xml:"Pages"`
}

// docxPageCount 从应用属性部件读取页数，读不到时按1页处理
func docxPageCount(pkg *ooxml.Package) int {
	data, err := pkg.Part("docProps/app.xml")
	if err != nil {
		return 1
	}
	var props appProperties
	if err := xml.Unmarshal(data, &props); err != nil || props.Pages <= 0 {
		return 1
	}
	return props.Pages
}

package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
)

// pdfHeadingMaxLen 超过这个长度的行不再视为标题
const pdfHeadingMaxLen = 100

// numberedHeadingPattern 编号标题，例如"1. Background"或"2) Scope"
var numberedHeadingPattern = regexp.MustCompile(`^\d+[.)]\s+[A-Z]`)

// pdfSectionKeywords PDF标题识别用的固定学术章节关键词
var pdfSectionKeywords = []string{
	"INTRODUCTION", "METHODOLOGY", "RESULTS", "DISCUSSION", "CONCLUSION", "REFERENCES",
}

// PDFParser PDF文档解析器
// 样式提取和图片提取对PDF输入是明确的非目标
type PDFParser struct {
	styles StyleExtractor
}

// NewPDFParser 创建一个新的PDF解析器
func NewPDFParser() Parser {
	return &PDFParser{styles: NewDefaultStyleExtractor()}
}

// Parse 解析PDF字节并提取结构化内容
func (p *PDFParser) Parse(data []byte) (*ParsedDocument, error) {
	text, pageCount, err := extractPDFText(data)
	if err != nil {
		return nil, models.NewParseError(string(PDF), err)
	}

	lines := strings.Split(text, "\n")
	headings, marks := detectPDFHeadings(lines)
	sections := buildSections(lines, marks, text)

	styles, err := p.styles.Extract(nil)
	if err != nil {
		styles = DefaultStyles()
	}

	return &ParsedDocument{
		Text:     text,
		Headings: headings,
		Sections: sections,
		Styles:   styles,
		Metadata: Metadata{
			PageCount:    pageCount,
			WordCount:    CountWords(text),
			DocumentType: PDF,
		},
	}, nil
}

// ParseReader 从Reader解析PDF文档
func (p *PDFParser) ParseReader(r io.Reader) (*ParsedDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, models.NewParseError(string(PDF), err)
	}
	return p.Parse(data)
}

// extractPDFText 提取PDF全文文本和页数
// 把各页内容提取到临时目录再按页码顺序拼接
func extractPDFText(data []byte) (string, int, error) {
	tmpFile, err := os.CreateTemp("", "docengine-*.pdf")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return "", 0, fmt.Errorf("failed to write temp file: %v", err)
	}
	tmpFile.Close()

	tmpDir, err := os.MkdirTemp("", "pdfcpu_extract_")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	conf := model.NewDefaultConfiguration()

	pageCount, err := api.PageCountFile(tmpFile.Name())
	if err != nil {
		return "", 0, fmt.Errorf("failed to read PDF structure: %v", err)
	}

	if err := api.ExtractContentFile(tmpFile.Name(), tmpDir, nil, conf); err != nil {
		return "", 0, fmt.Errorf("failed to extract text from PDF: %v", err)
	}

	files, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read extracted text dir: %v", err)
	}

	// 按文件名排序(页码顺序)
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	var allText strings.Builder
	for _, f := range files {
		if !strings.HasSuffix(f.Name(), ".txt") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(tmpDir, f.Name()))
		if err != nil {
			continue
		}
		if allText.Len() > 0 {
			allText.WriteString("\n\n")
		}
		allText.Write(content)
	}

	result := strings.TrimSpace(allText.String())
	if result == "" {
		return "", 0, fmt.Errorf("no text content found in PDF")
	}
	return result, pageCount, nil
}

// detectPDFHeadings 对文本行做纯启发式标题检测
// 全大写短行为1级标题，编号行和学术章节关键词行为2级标题
func detectPDFHeadings(lines []string) ([]HeadingInfo, []headingMark) {
	var headings []HeadingInfo
	var marks []headingMark

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || len(line) >= pdfHeadingMaxLen {
			continue
		}

		level := 0
		switch {
		case isAllCaps(line):
			level = 1
		case numberedHeadingPattern.MatchString(line):
			level = 2
		case matchesSectionKeyword(line):
			level = 2
		}
		if level == 0 {
			continue
		}

		h := HeadingInfo{Level: level, Text: line, Style: "heuristic"}
		headings = append(headings, h)
		marks = append(marks, headingMark{heading: h, line: i})
	}
	return headings, marks
}

// isAllCaps 行内含字母且全部为大写
func isAllCaps(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// matchesSectionKeyword 行以学术章节关键词开头，大小写不敏感
func matchesSectionKeyword(line string) bool {
	upper := strings.ToUpper(line)
	for _, keyword := range pdfSectionKeywords {
		if strings.HasPrefix(upper, keyword) {
			return true
		}
	}
	return false
}

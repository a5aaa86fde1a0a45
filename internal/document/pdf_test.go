package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// createTestPDF 生成测试用的PDF字节
func createTestPDF(t *testing.T, text string) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 10, text, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("Failed to write test PDF: %v", err)
	}
	return buf.Bytes()
}

func TestPDFParser(t *testing.T) {
	data := createTestPDF(t, "This is a PDF test.\nSecond line.")

	parser := NewPDFParser()
	parsed, err := parser.Parse(data)
	if err != nil {
		t.Fatalf("PDFParser.Parse failed: %v", err)
	}

	if !strings.Contains(parsed.Text, "PDF test") {
		t.Errorf("Expected content not found in parsed PDF text: %s", parsed.Text)
	}
	if parsed.Metadata.PageCount != 1 {
		t.Errorf("Expected 1 page, got %d", parsed.Metadata.PageCount)
	}
	if parsed.Metadata.DocumentType != PDF {
		t.Errorf("Expected document type pdf, got %s", parsed.Metadata.DocumentType)
	}
	if len(parsed.Sections) == 0 {
		t.Error("Sections must never be empty")
	}
	if len(parsed.Images) != 0 {
		t.Error("PDF image extraction is out of scope, expected no images")
	}
}

func TestPDFParserInvalidInput(t *testing.T) {
	parser := NewPDFParser()
	if _, err := parser.Parse([]byte("definitely not a pdf")); err == nil {
		t.Fatal("Expected error for malformed PDF input")
	}
}

func TestDetectPDFHeadings(t *testing.T) {
	lines := []string{
		"INTRODUCTION",               // 全大写 -> 1级
		"Some body text follows.",    // 普通行
		"1. Background Material",     // 编号标题 -> 2级
		"methodology of this study",  // 关键词开头 -> 2级
		strings.Repeat("LONG ", 30),  // 超长行排除
		"lowercase line",             // 普通行
		"",                           // 空行
	}

	headings, marks := detectPDFHeadings(lines)
	if len(headings) != 3 {
		t.Fatalf("Expected 3 headings, got %d: %+v", len(headings), headings)
	}

	if headings[0].Text != "INTRODUCTION" || headings[0].Level != 1 {
		t.Errorf("Unexpected first heading: %+v", headings[0])
	}
	if headings[1].Text != "1. Background Material" || headings[1].Level != 2 {
		t.Errorf("Unexpected second heading: %+v", headings[1])
	}
	if headings[2].Level != 2 {
		t.Errorf("Keyword heading should be level 2: %+v", headings[2])
	}

	// 位置标记随发现顺序严格递增
	for i := 1; i < len(marks); i++ {
		if marks[i].line <= marks[i-1].line {
			t.Errorf("Heading marks out of order: %+v", marks)
		}
	}
}

func TestDetectPDFHeadingsSectionScenario(t *testing.T) {
	text := "INTRODUCTION\nHello world.\n\nCONCLUSION\nGoodbye.\n"
	lines := strings.Split(text, "\n")

	headings, marks := detectPDFHeadings(lines)
	if len(headings) != 2 {
		t.Fatalf("Expected 2 headings, got %d", len(headings))
	}

	sections := buildSections(lines, marks, text)
	if len(sections) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(sections))
	}
	if sections[0].Type != SectionIntroduction || sections[0].Content != "Hello world.\n" || sections[0].WordCount != 2 {
		t.Errorf("Unexpected introduction section: %+v", sections[0])
	}
	if sections[1].Type != SectionConclusion || sections[1].Content != "Goodbye.\n" || sections[1].WordCount != 1 {
		t.Errorf("Unexpected conclusion section: %+v", sections[1])
	}
}

func TestIsAllCaps(t *testing.T) {
	tests := []struct {
		line     string
		expected bool
	}{
		{"INTRODUCTION", true},
		{"SECTION 2", true},
		{"Introduction", false},
		{"123 456", false}, // 无字母
		{"", false},
	}
	for _, tt := range tests {
		if got := isAllCaps(tt.line); got != tt.expected {
			t.Errorf("isAllCaps(%q) = %v, expected %v", tt.line, got, tt.expected)
		}
	}
}

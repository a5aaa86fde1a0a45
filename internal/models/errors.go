package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingDocumentPart DOCX包中缺少主文档部件
	ErrMissingDocumentPart = errors.New("docx package missing word/document.xml")

	// ErrEmptyTemplate 模板文件为空或不可读
	ErrEmptyTemplate = errors.New("template file is empty or unreadable")

	// ErrBodyTagMismatch 拼接后的文档body标签数量不正确
	ErrBodyTagMismatch = errors.New("spliced document does not contain exactly one body open/close pair")
)

// ParseError 文档解析错误
// 输入字节不是声明类型的有效文档，对调用方而言总是致命的
type ParseError struct {
	DocType string // 声明的文档类型：docx 或 pdf
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s document: %v", e.DocType, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError 创建一个解析错误
func NewParseError(docType string, err error) *ParseError {
	return &ParseError{DocType: docType, Err: err}
}

// TemplateNotFoundError 找不到学院模板也找不到默认模板
type TemplateNotFoundError struct {
	CollegeCode    string
	AssignmentType string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("no template found for college %q (type %s) and no default template",
		e.CollegeCode, e.AssignmentType)
}

// TemplateRenderError 模板渲染错误
// 聚合所有未解析的占位符，调用方可以一次性修复全部问题
type TemplateRenderError struct {
	Unresolved []string
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("template render failed, unresolved placeholders: %s",
		strings.Join(e.Unresolved, ", "))
}

package document

import (
	"errors"
	"io"
)

// DocumentType 表示文档的声明类型
// 由上传处理层预先校验并声明，核心不做MIME或扩展名探测
type DocumentType string

const (
	// DOCX 文档类型
	DOCX DocumentType = "docx"
	// PDF 文档类型
	PDF DocumentType = "pdf"
)

// Parser 文档解析器接口
// 负责将一种格式的文档字节解析为结构化表示
type Parser interface {
	// Parse 解析文档字节，返回结构化结果
	Parse(data []byte) (*ParsedDocument, error)

	// ParseReader 从Reader解析文档
	ParseReader(r io.Reader) (*ParsedDocument, error)
}

// ParserFactory 解析器工厂函数，根据声明类型创建对应的解析器
func ParserFactory(docType DocumentType) (Parser, error) {
	switch docType {
	case DOCX:
		return NewDOCXParser(), nil
	case PDF:
		return NewPDFParser(), nil
	default:
		return nil, errors.New("unsupported document type")
	}
}

package document

import (
	"github.com/fyerfyer/assignment-doc-engine/internal/ooxml"
)

// StyleExtractor 文档样式提取能力
// 当前实现只返回固定默认值，真实的样式提取可以在不改变
// ParsedDocument形状的前提下替换这个实现
type StyleExtractor interface {
	// Extract 从DOCX包提取样式，pkg为nil时(PDF路径)返回默认样式
	Extract(pkg *ooxml.Package) (DocumentStyles, error)
}

// DefaultStyleExtractor 返回固定默认样式的提取器
// Times New Roman 12磅、1英寸页边距、1.5倍行距
type DefaultStyleExtractor struct{}

// NewDefaultStyleExtractor 创建默认样式提取器
func NewDefaultStyleExtractor() StyleExtractor {
	return &DefaultStyleExtractor{}
}

// Extract 返回默认样式，忽略包内容
func (e *DefaultStyleExtractor) Extract(_ *ooxml.Package) (DocumentStyles, error) {
	return DefaultStyles(), nil
}

// DefaultStyles 系统统一的默认样式
func DefaultStyles() DocumentStyles {
	return DocumentStyles{
		Fonts: map[string]FontInfo{
			"default": {Name: "Times New Roman", Size: 12},
		},
		Margins: MarginInfo{Top: 1, Right: 1, Bottom: 1, Left: 1},
		Spacing: SpacingInfo{Line: 1.5},
	}
}

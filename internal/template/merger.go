package template

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
	"github.com/fyerfyer/assignment-doc-engine/internal/ooxml"
	"github.com/fyerfyer/assignment-doc-engine/internal/rebuild"
)

// MergeResult 合并结果
// 追加步骤是尽力而为的：失败时返回仅含模板内容的文档并把
// ContentAppended置false，由调用方决定降级结果是否可接受
type MergeResult struct {
	Document        []byte
	ContentAppended bool
	Warning         string
}

// Merger 模板合并器
// 先对模板做声明式字段替换，再把生成内容以raw XML方式追加到封面之后
type Merger struct {
	engine             *Engine
	logger             *logrus.Logger
	defaultCollegeName string
}

// MergerOption Merger配置选项
type MergerOption func(*Merger)

// WithMergerLogger 设置日志记录器
func WithMergerLogger(logger *logrus.Logger) MergerOption {
	return func(m *Merger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDefaultCollegeName 设置学院名称缺失时的默认机构名
func WithDefaultCollegeName(name string) MergerOption {
	return func(m *Merger) {
		if name != "" {
			m.defaultCollegeName = name
		}
	}
}

// NewMerger 创建模板合并器
func NewMerger(opts ...MergerOption) *Merger {
	m := &Merger{
		engine: NewEngine(),
		logger: logrus.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge 把字段表合并进模板，返回最终DOCX字节
// 模板不可读、渲染失败是致命错误；追加失败降级为仅模板输出
func (m *Merger) Merge(templateBytes []byte, data *models.AssignmentData) (*MergeResult, error) {
	if len(templateBytes) == 0 {
		return nil, models.ErrEmptyTemplate
	}

	phase1, err := m.renderTemplate(templateBytes, data)
	if err != nil {
		return nil, err
	}

	hasContent := data != nil && strings.TrimSpace(data.AssignmentContent) != ""
	var refLines []string
	if data != nil {
		refLines = rebuild.FormatReferences(data.References)
	}

	// 没有生成内容也没有参考文献时不需要第二阶段
	if !hasContent && len(refLines) == 0 {
		return &MergeResult{Document: phase1}, nil
	}

	fragment, err := m.buildFragment(data, refLines)
	if err != nil {
		return m.degrade(phase1, err), nil
	}

	merged, err := ooxml.SpliceBody(phase1, fragment)
	if err != nil {
		return m.degrade(phase1, err), nil
	}

	return &MergeResult{Document: merged, ContentAppended: true}, nil
}

// renderTemplate 第一阶段：声明式字段替换
func (m *Merger) renderTemplate(templateBytes []byte, data *models.AssignmentData) ([]byte, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(templateBytes), int64(len(templateBytes)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEmptyTemplate, err)
	}
	defer doc.Close()

	editable := doc.Editable()
	contentXML := editable.GetContent()

	vars := BuildVariables(data, m.defaultCollegeName)
	rendered, err := m.engine.Render(contentXML, vars)
	if err != nil {
		return nil, err
	}
	editable.ReplaceRaw(contentXML, rendered, 1)

	var buf bytes.Buffer
	if err := editable.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize rendered template: %v", err)
	}
	return buf.Bytes(), nil
}

// buildFragment 第二阶段的注入片段
// 用和结构重建相同的段落构造规则生成一个独立的内存文档
func (m *Merger) buildFragment(data *models.AssignmentData, refLines []string) ([]byte, error) {
	var builderOpts []ooxml.BuilderOption
	if data != nil {
		builderOpts = append(builderOpts, ooxml.WithFont(data.FontFamily, data.FontSize))
	}
	builder := ooxml.NewBuilder(builderOpts...)

	if data != nil && strings.TrimSpace(data.AssignmentContent) != "" {
		text := rebuild.NormalizeGeneratedText(data.AssignmentContent)
		rebuild.AppendContentParagraphs(builder, text, rebuild.SectionLayout{})
	}
	if len(refLines) > 0 {
		rebuild.AppendReferences(builder, refLines)
	}

	if builder.ParagraphCount() == 0 {
		return nil, fmt.Errorf("no appendable content after normalization")
	}
	return builder.Bytes()
}

// degrade 追加失败时的降级结果：模板保真不可妥协，内容注入可以缺席
func (m *Merger) degrade(phase1 []byte, cause error) *MergeResult {
	m.logger.WithError(cause).Warn("content append failed, returning template-only document")
	return &MergeResult{
		Document:        phase1,
		ContentAppended: false,
		Warning:         fmt.Sprintf("generated content was not appended: %v", cause),
	}
}

package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/assignment-doc-engine/internal/document"
	"github.com/fyerfyer/assignment-doc-engine/internal/models"
	"github.com/fyerfyer/assignment-doc-engine/internal/rebuild"
	"github.com/fyerfyer/assignment-doc-engine/internal/template"
)

// GenerationResult 一次文档生成的结果
type GenerationResult struct {
	ID              string // 本次生成的唯一标识
	Document        []byte // 最终DOCX字节，由调用方负责持久化
	TemplateName    string // 命中的模板文件名，重建路径为空
	ContentAppended bool   // 生成内容是否成功注入
	Warning         string // 降级说明，为空表示无降级
}

// AssignmentService 作业文档服务
// 协调文档解析、模板合并和结构重建，本身不持久化任何状态
type AssignmentService struct {
	store     *template.Store
	merger    *template.Merger
	rebuilder *rebuild.Rebuilder
	logger    *logrus.Logger
}

// Option 服务配置选项
type Option func(*AssignmentService)

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) Option {
	return func(s *AssignmentService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTemplateStore 设置模板仓库
func WithTemplateStore(store *template.Store) Option {
	return func(s *AssignmentService) {
		s.store = store
	}
}

// WithMerger 设置模板合并器
func WithMerger(merger *template.Merger) Option {
	return func(s *AssignmentService) {
		if merger != nil {
			s.merger = merger
		}
	}
}

// NewAssignmentService 创建作业文档服务
func NewAssignmentService(opts ...Option) *AssignmentService {
	s := &AssignmentService{
		merger:    template.NewMerger(),
		rebuilder: rebuild.NewRebuilder(),
		logger:    logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseUpload 解析上传的文档字节
// docType由上传层预先校验并声明，这里不做MIME探测
func (s *AssignmentService) ParseUpload(data []byte, docType document.DocumentType) (*document.ParsedDocument, error) {
	parser, err := document.ParserFactory(docType)
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(data)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"doc_type": docType,
			"size":     len(data),
		}).WithError(err).Error("failed to parse uploaded document")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"doc_type":   docType,
		"sections":   len(parsed.Sections),
		"headings":   len(parsed.Headings),
		"word_count": parsed.Metadata.WordCount,
	}).Info("document parsed")
	return parsed, nil
}

// GenerateFromTemplate 按学院模板生成作业文档
func (s *AssignmentService) GenerateFromTemplate(collegeCode string, data *models.AssignmentData) (*GenerationResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("template store is not configured")
	}
	if data == nil {
		data = &models.AssignmentData{}
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid assignment data: %v", err)
	}

	templateBytes, templateName, err := s.store.Find(collegeCode, data.AssignmentType)
	if err != nil {
		return nil, err
	}

	result, err := s.merger.Merge(templateBytes, data)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	entry := s.logger.WithFields(logrus.Fields{
		"document_id":      id,
		"template":         templateName,
		"content_appended": result.ContentAppended,
	})
	if result.Warning != "" {
		entry.WithField("warning", result.Warning).Warn("document generated with degradation")
	} else {
		entry.Info("document generated")
	}

	return &GenerationResult{
		ID:              id,
		Document:        result.Document,
		TemplateName:    templateName,
		ContentAppended: result.ContentAppended,
		Warning:         result.Warning,
	}, nil
}

// RebuildDocument 从结构化数据重建作业文档
func (s *AssignmentService) RebuildDocument(
	structure *rebuild.DocumentStructure,
	content map[string]string,
	formatting *rebuild.Formatting,
	images []document.ImageInfo,
	data *models.AssignmentData,
) (*GenerationResult, error) {
	if data != nil {
		if err := data.Validate(); err != nil {
			return nil, fmt.Errorf("invalid assignment data: %v", err)
		}
	}

	docBytes, err := s.rebuilder.Rebuild(structure, content, formatting, images, data)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	s.logger.WithFields(logrus.Fields{
		"document_id": id,
		"size":        len(docBytes),
	}).Info("document rebuilt from structure")

	return &GenerationResult{
		ID:              id,
		Document:        docBytes,
		ContentAppended: true,
	}, nil
}

// StructureFromParsed 把解析结果转换成重建输入结构
// 解析结果本身不可变，转换产生新的结构
func StructureFromParsed(parsed *document.ParsedDocument) *rebuild.DocumentStructure {
	if parsed == nil {
		return &rebuild.DocumentStructure{}
	}

	structure := &rebuild.DocumentStructure{
		HasCoverPage: parsed.CoverPageText != "",
	}
	if structure.HasCoverPage {
		for _, line := range splitCoverLines(parsed.CoverPageText) {
			structure.CoverElements = append(structure.CoverElements, rebuild.CoverElement{
				Type:      "text",
				Text:      line,
				Alignment: "centered",
			})
		}
	}

	for _, sec := range parsed.Sections {
		structure.Sections = append(structure.Sections, rebuild.SectionLayout{
			Type:  string(sec.Type),
			Title: sec.Title,
		})
	}
	return structure
}

// splitCoverLines 封面文本按行拆成元素
func splitCoverLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

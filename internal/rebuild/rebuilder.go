package rebuild

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/assignment-doc-engine/internal/document"
	"github.com/fyerfyer/assignment-doc-engine/internal/models"
	"github.com/fyerfyer/assignment-doc-engine/internal/ooxml"
)

// CoverElement 封面上的一个元素，按原始文档顺序渲染
type CoverElement struct {
	// Type 元素类型，决定替换值的查找链
	// 例如student_name、college_name、module_name、date、title
	Type string

	// Text 原始提取文本，找不到替换值时原样保留
	Text string

	// Alignment 布局声明：centered 或 left
	Alignment string
}

// SectionLayout 结构中声明的一个正文章节
type SectionLayout struct {
	Type  string // 章节分类，生成内容按它查找
	Title string // 章节标题，作为查找回退
}

// DocumentStructure 重建的输入结构，通常由ParsedDocument派生
type DocumentStructure struct {
	HasCoverPage  bool
	CoverElements []CoverElement
	Sections      []SectionLayout
}

// Formatting 输出文档的格式参数，零值字段使用系统默认
type Formatting struct {
	FontFamily  string
	FontSize    float64
	Margins     document.MarginInfo
	LineSpacing float64
}

// Rebuilder 从结构化数据重建DOCX文档
// 缺失的可选数据一律降级为默认值或省略，不报错
type Rebuilder struct {
	logger *logrus.Logger
}

// RebuilderOption Rebuilder配置选项
type RebuilderOption func(*Rebuilder)

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) RebuilderOption {
	return func(r *Rebuilder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRebuilder 创建一个文档重建器
func NewRebuilder(opts ...RebuilderOption) *Rebuilder {
	r := &Rebuilder{
		logger: logrus.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rebuild 把结构和按章节生成的内容组装成DOCX字节
// content的键先按章节type匹配，再按title回退；
// images参数保留给封面logo插入，当前尚未实现
func (r *Rebuilder) Rebuild(
	structure *DocumentStructure,
	content map[string]string,
	formatting *Formatting,
	images []document.ImageInfo,
	data *models.AssignmentData,
) ([]byte, error) {
	builder := newConfiguredBuilder(formatting)

	if structure != nil && structure.HasCoverPage {
		r.renderCoverPage(builder, structure.CoverElements, data)
	}

	if structure != nil {
		for _, sec := range structure.Sections {
			r.renderSection(builder, sec, content)
		}
	}

	if lines := referenceLines(content, data); len(lines) > 0 {
		AppendReferences(builder, lines)
	}

	// 包里一个段落都没有会产出结构非法的文档，兜底放一个占位段落
	if builder.ParagraphCount() == 0 {
		builder.AddText("")
	}

	if len(images) > 0 {
		r.logger.WithField("images", len(images)).Debug("cover logo insertion is not implemented, images skipped")
	}

	return builder.Bytes()
}

// newConfiguredBuilder 按格式参数创建构建器，缺失字段落到默认值
func newConfiguredBuilder(formatting *Formatting) *ooxml.Builder {
	if formatting == nil {
		return ooxml.NewBuilder()
	}
	return ooxml.NewBuilder(
		ooxml.WithFont(formatting.FontFamily, formatting.FontSize),
		ooxml.WithMargins(ooxml.PageMargins{
			Top:    formatting.Margins.Top,
			Right:  formatting.Margins.Right,
			Bottom: formatting.Margins.Bottom,
			Left:   formatting.Margins.Left,
		}),
		ooxml.WithLineSpacing(formatting.LineSpacing),
	)
}

// renderCoverPage 按原始顺序渲染封面元素，最后追加分页
func (r *Rebuilder) renderCoverPage(builder *ooxml.Builder, elements []CoverElement, data *models.AssignmentData) {
	if len(elements) == 0 {
		return
	}

	for _, elem := range elements {
		text := resolveCoverValue(elem, data)

		alignment := ooxml.AlignLeft
		if elem.Alignment == "centered" {
			alignment = ooxml.AlignCenter
		}

		run := ooxml.Run{Text: text}
		if elem.Type == "title" {
			run.Bold = true
			run.SizeHalfPoints = builder.DefaultSizeHalfPoints() + 8
		}

		builder.AddParagraph(ooxml.Paragraph{
			Runs:      []ooxml.Run{run},
			Alignment: alignment,
		})
	}

	builder.AddPageBreak()
}

// resolveCoverValue 按元素类型的查找链解析替换值
// 链的顺序是历史形成的，近义键的优先级保持原样；
// 整条链都没有命中时回退到元素的原始文本
func resolveCoverValue(elem CoverElement, data *models.AssignmentData) string {
	if data == nil {
		return elem.Text
	}

	extra := func(key string) string {
		if data.Extra == nil {
			return ""
		}
		return strings.TrimSpace(models.CoerceString(data.Extra[key]))
	}

	var chain []string
	switch elem.Type {
	case "student_name":
		chain = []string{extra("student_name"), extra("studentName"), data.StudentName}
	case "college_name":
		chain = []string{extra("college_name"), extra("collegeName"), data.CollegeName}
	case "program_name":
		chain = []string{extra("program_name"), data.ProgramName}
	case "module_name":
		chain = []string{extra("module_name"), data.ModuleName, data.CourseName}
	case "course_name":
		chain = []string{extra("course_name"), data.CourseName, data.ModuleName}
	case "module_code":
		chain = []string{extra("module_code"), data.ModuleCode}
	case "instructor_name":
		chain = []string{extra("instructor_name"), data.InstructorName}
	case "registration_no":
		chain = []string{extra("registration_no"), data.RegistrationNo}
	case "date":
		chain = []string{extra("submission_date"), models.FormatDate(data.SubmissionDate)}
	case "title":
		chain = []string{extra("title"), data.Title, data.AssignmentTask}
	default:
		chain = []string{extra(elem.Type)}
	}

	for _, value := range chain {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return elem.Text
}

// renderSection 渲染一个正文章节：标题段落加两端对齐的内容段落
func (r *Rebuilder) renderSection(builder *ooxml.Builder, sec SectionLayout, content map[string]string) {
	text := content[sec.Type]
	if text == "" {
		text = content[sec.Title]
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	if sec.Title != "" {
		builder.AddParagraph(headingParagraph(builder, sec.Title, headingLevelFor(sec.Type)))
	}

	AppendContentParagraphs(builder, NormalizeGeneratedText(text), sec)
}

// headingLevelFor 引言和结论用1级标题，其余2级
func headingLevelFor(secType string) int {
	if secType == string(document.SectionIntroduction) || secType == string(document.SectionConclusion) {
		return 1
	}
	return 2
}

// headingParagraph 构造标题段落
func headingParagraph(builder *ooxml.Builder, text string, level int) ooxml.Paragraph {
	style := "Heading2"
	sizeDelta := 4
	if level == 1 {
		style = "Heading1"
		sizeDelta = 8
	}
	return ooxml.Paragraph{
		Style: style,
		Runs: []ooxml.Run{{
			Text:           text,
			Bold:           true,
			SizeHalfPoints: builder.DefaultSizeHalfPoints() + sizeDelta,
		}},
	}
}

// AppendContentParagraphs 按空行边界切分文本并追加两端对齐的段落
// 生成器有时会把自己的标题复读进正文，纯章节名的块直接丢弃
func AppendContentParagraphs(builder *ooxml.Builder, text string, sec SectionLayout) {
	for _, chunk := range strings.Split(text, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		if isSectionEcho(chunk, sec) {
			continue
		}
		builder.AddParagraph(ooxml.Paragraph{
			Runs:      []ooxml.Run{{Text: chunk}},
			Alignment: ooxml.AlignJustified,
		})
	}
}

// isSectionEcho 块是否只是章节名本身
func isSectionEcho(chunk string, sec SectionLayout) bool {
	if sec.Title != "" && strings.EqualFold(chunk, sec.Title) {
		return true
	}
	if sec.Type != "" && strings.EqualFold(chunk, strings.ReplaceAll(sec.Type, "_", " ")) {
		return true
	}
	return false
}

// AppendReferences 追加参考文献：强制分页、居中标题、悬挂缩进条目
func AppendReferences(builder *ooxml.Builder, lines []string) {
	builder.AddPageBreak()
	builder.AddParagraph(ooxml.Paragraph{
		Runs: []ooxml.Run{{
			Text:           "REFERENCES",
			Bold:           true,
			SizeHalfPoints: builder.DefaultSizeHalfPoints() + 4,
		}},
		Alignment: ooxml.AlignCenter,
	})

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		builder.AddParagraph(ooxml.Paragraph{
			Runs:          []ooxml.Run{{Text: line}},
			HangingIndent: true,
		})
	}
}

// referenceLines 参考文献行：content表的references键优先，
// 为空时从字段表的结构化条目格式化
func referenceLines(content map[string]string, data *models.AssignmentData) []string {
	if raw, ok := content["references"]; ok && strings.TrimSpace(raw) != "" {
		return strings.Split(raw, "\n")
	}
	if data != nil {
		return FormatReferences(data.References)
	}
	return nil
}

// FormatReferences 把结构化参考文献条目格式化成文本行
func FormatReferences(refs []models.Reference) []string {
	var lines []string
	for _, ref := range refs {
		authors := ref.Authors
		if authors == "" {
			authors = ref.Author
		}

		var parts []string
		if authors != "" {
			if ref.Year != "" {
				parts = append(parts, authors+" ("+ref.Year+").")
			} else {
				parts = append(parts, authors+".")
			}
		} else if ref.Year != "" {
			parts = append(parts, "("+ref.Year+").")
		}
		if ref.Title != "" {
			parts = append(parts, ref.Title+".")
		}
		if ref.Source != "" {
			parts = append(parts, ref.Source+".")
		}
		if ref.URL != "" {
			parts = append(parts, ref.URL)
		}

		line := strings.TrimSpace(strings.Join(parts, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

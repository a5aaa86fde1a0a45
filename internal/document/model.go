package document

// HeadingInfo 文档中的一个标题
type HeadingInfo struct {
	Level int    // 标题级别 1-6
	Text  string // 标题文本
	Style string // 样式来源，例如Heading1或heuristic
}

// SectionType 章节分类标签，按标题关键词匹配得到
type SectionType string

const (
	SectionCoverPage       SectionType = "cover_page"
	SectionIntroduction    SectionType = "introduction"
	SectionMethodology     SectionType = "methodology"
	SectionResults         SectionType = "results"
	SectionDiscussion      SectionType = "discussion"
	SectionConclusion      SectionType = "conclusion"
	SectionReferences      SectionType = "references"
	SectionAbstract        SectionType = "abstract"
	SectionAcknowledgments SectionType = "acknowledgments"
	// SectionBody 默认分类，无法识别时的回退值
	SectionBody SectionType = "body"
)

// SectionInfo 按标题边界切分出的一个章节
type SectionInfo struct {
	Title     string      // 章节标题，可为空
	Content   string      // 章节正文
	Type      SectionType // 章节分类
	WordCount int         // 正文词数
}

// ImageInfo 从DOCX包中提取的一张图片
type ImageInfo struct {
	Data     []byte // 图片原始字节
	Format   string // 格式，来自媒体部件扩展名，例如png
	Width    int    // 宽度(像素)，0表示未知
	Height   int    // 高度(像素)，0表示未知
	Position int    // 在文档中的出现顺序，从0开始
}

// FontInfo 字体信息
type FontInfo struct {
	Name string  // 字体名称
	Size float64 // 字号(磅)
}

// MarginInfo 页边距，单位英寸
type MarginInfo struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// SpacingInfo 行距信息
type SpacingInfo struct {
	Line float64 // 行距倍数
}

// DocumentStyles 文档样式汇总
// 目前两种解析路径都返回固定默认值而不是真实提取结果，
// 这是一个已知的简化，见StyleExtractor扩展点
type DocumentStyles struct {
	Fonts   map[string]FontInfo
	Margins MarginInfo
	Spacing SpacingInfo
}

// Metadata 文档元数据
type Metadata struct {
	PageCount    int          // 页数
	WordCount    int          // 全文词数
	DocumentType DocumentType // docx 或 pdf
}

// ParsedDocument 解析器的输出，产出后不再修改
// 调用方如需"编辑"，应把字段转换成新的生成输入，而不是原地改动
type ParsedDocument struct {
	// Text 按顺序提取的全文纯文本
	Text string

	// CoverPageText 启发式切出的封面文本
	// 取第一个正文起始关键词之前的部分，找不到关键词时取前8个段落
	CoverPageText string

	// Headings 按文档顺序排列的标题
	Headings []HeadingInfo

	// Sections 按标题边界切分的章节
	// 不变式：检测不到任何标题时，恰好存在一个body章节，内容为全文
	Sections []SectionInfo

	Styles   DocumentStyles
	Images   []ImageInfo
	Metadata Metadata
}

package document

import (
	"regexp"
	"strings"
)

// contentStartPattern 正文起始关键词，用于封面切分
// 匹配段落行首，大小写不敏感
var contentStartPattern = regexp.MustCompile(`(?im)^\s*(QUESTION|INTRODUCTION|CONTENT|BODY|ABSTRACT|ACKNOWLEDGMENTS)`)

// coverFallbackParagraphs 找不到正文起始关键词时封面取的段落数
const coverFallbackParagraphs = 8

// sectionKeywords 章节分类关键词表，按标题文本包含匹配
var sectionKeywords = []struct {
	keyword string
	secType SectionType
}{
	{"introduction", SectionIntroduction},
	{"methodology", SectionMethodology},
	{"method", SectionMethodology},
	{"results", SectionResults},
	{"findings", SectionResults},
	{"discussion", SectionDiscussion},
	{"conclusion", SectionConclusion},
	{"references", SectionReferences},
	{"bibliography", SectionReferences},
	{"abstract", SectionAbstract},
	{"acknowledgment", SectionAcknowledgments},
	{"acknowledgement", SectionAcknowledgments},
	{"cover", SectionCoverPage},
}

// ClassifySection 按标题关键词对章节分类，匹配不到返回body
func ClassifySection(title string) SectionType {
	lower := strings.ToLower(title)
	for _, entry := range sectionKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.secType
		}
	}
	return SectionBody
}

// CountWords 统计非空的空白分隔词元数量
// 这是全系统统一的词数算法
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// headingMark 标题在行序列中的位置
// 标题位置在提取标题的同一趟扫描中记录，章节按位置区间切分，
// 避免用第二趟字符串相等扫描去找边界
type headingMark struct {
	heading HeadingInfo
	line    int // 在行序列中的下标
}

// buildSections 按标题位置把行序列切分成章节
// 第一个标题之前的行属于封面材料，在这里丢弃；
// 一个标题都没有时合成单个body章节，内容为全文
func buildSections(lines []string, marks []headingMark, fullText string) []SectionInfo {
	var sections []SectionInfo

	for i, mark := range marks {
		end := len(lines)
		if i+1 < len(marks) {
			end = marks[i+1].line
		}

		var content strings.Builder
		for _, line := range lines[mark.line+1 : end] {
			if strings.TrimSpace(line) == "" {
				continue
			}
			content.WriteString(line)
			content.WriteString("\n")
		}

		title := mark.heading.Text
		sections = append(sections, SectionInfo{
			Title:     title,
			Content:   content.String(),
			Type:      ClassifySection(title),
			WordCount: CountWords(content.String()),
		})
	}

	if len(sections) == 0 {
		sections = append(sections, SectionInfo{
			Content:   fullText,
			Type:      SectionBody,
			WordCount: CountWords(fullText),
		})
	}
	return sections
}

// sliceCoverPage 从全文切出封面文本
// 按空行把全文分成段落，找到第一个以正文起始关键词开头的段落；
// 找不到时回退取前8个段落
func sliceCoverPage(text string) string {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return ""
	}

	for i, para := range paragraphs {
		if contentStartPattern.MatchString(para) {
			return strings.Join(paragraphs[:i], "\n\n")
		}
	}

	end := coverFallbackParagraphs
	if end > len(paragraphs) {
		end = len(paragraphs)
	}
	return strings.Join(paragraphs[:end], "\n\n")
}

// splitParagraphs 按空行边界把文本切成段落
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, chunk := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(chunk) != "" {
			paragraphs = append(paragraphs, chunk)
		}
	}
	return paragraphs
}

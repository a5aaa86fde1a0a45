package rebuild

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// NormalizeGeneratedText 把生成器输出的文本规整为纯段落文本
// 上游AI生成内容经常带Markdown标记，排版前先转HTML再剥掉标签，
// 保留空行作为段落边界
func NormalizeGeneratedText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if !looksLikeMarkdown(text) {
		return strings.TrimSpace(text)
	}

	extensions := parser.CommonExtensions
	mdParser := parser.NewWithExtensions(extensions)
	doc := mdParser.Parse([]byte(text))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	htmlContent := markdown.Render(doc, renderer)

	return stripHTML(string(htmlContent))
}

// looksLikeMarkdown 粗判文本是否带Markdown标记
func looksLikeMarkdown(text string) bool {
	for _, marker := range []string{"**", "# ", "## ", "### ", "- ", "* ", "`"} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// stripHTML 从HTML中提取纯文本
// 块级标签转成段落边界，其余标签直接移除
func stripHTML(htmlText string) string {
	replacements := []struct {
		old string
		new string
	}{
		{"<br>", "\n"},
		{"<br/>", "\n"},
		{"<br />", "\n"},
		{"<p>", ""},
		{"</p>", "\n\n"},
		{"<li>", ""},
		{"</li>", "\n"},
		{"<ul>", "\n"},
		{"</ul>", "\n"},
		{"<ol>", "\n"},
		{"</ol>", "\n"},
	}
	for level := 1; level <= 6; level++ {
		tag := string(rune('0' + level))
		replacements = append(replacements,
			struct{ old, new string }{"<h" + tag + ">", "\n\n"},
			struct{ old, new string }{"</h" + tag + ">", "\n\n"},
		)
	}

	result := htmlText
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.old, r.new)
	}

	// 移除剩余的全部标签
	for {
		start := strings.Index(result, "<")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], ">")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+1:]
	}

	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&quot;", `"`)
	result = strings.ReplaceAll(result, "&#39;", "'")

	return normalizeBlankLines(result)
}

// normalizeBlankLines 行内空白规整为单个空格，连续空行压成一个段落边界
func normalizeBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text = strings.Join(lines, "\n")

	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

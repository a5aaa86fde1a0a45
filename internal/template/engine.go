package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
	"github.com/fyerfyer/assignment-doc-engine/internal/ooxml"
)

var (
	// placeholderPattern 标量占位符，例如{college_name}
	placeholderPattern = regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_.]*\}`)

	// conditionalPattern 条件块标记，例如{#is_group}和{/is_group}
	conditionalPattern = regexp.MustCompile(`\{([#/])([a-zA-Z_][a-zA-Z0-9_]*)\}`)
)

// Engine 模板渲染引擎
// 对模板文件已声明的占位符、条件块和表格行做填充，
// 不能添加模板未预留的结构性内容(那是raw append的工作)
//
// 模板约定：
//   - 标量占位符 {name}，需位于单个文本run内
//   - 条件块 {#flag}...{/flag}，标记各占一个段落
//   - 成员表格行含 {member.*} 占位符，按成员数克隆
//   - 代表表格行含 {rep.*} 占位符，按代表数克隆
type Engine struct{}

// NewEngine 创建渲染引擎
func NewEngine() *Engine {
	return &Engine{}
}

// Render 对主文档XML执行渲染
// 渲染后仍残留未解析占位符时返回TemplateRenderError，
// 错误信息聚合全部未解析名称而不是只报第一个
func (e *Engine) Render(contentXML string, vars *TemplateVars) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(contentXML); err != nil {
		return "", fmt.Errorf("template document xml is not well-formed: %v", err)
	}

	expandTableRows(doc.Root(), "{member.", vars.Members)
	expandTableRows(doc.Root(), "{rep.", vars.Reps)
	applyConditionals(doc.Root(), vars.Flags)

	rendered, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to serialize rendered template: %v", err)
	}

	// 标量替换在序列化文本上进行，值做XML转义
	for key, value := range vars.Scalars {
		rendered = strings.ReplaceAll(rendered, "{"+key+"}", ooxml.EscapeText(value))
	}

	if unresolved := findUnresolved(rendered); len(unresolved) > 0 {
		return "", &models.TemplateRenderError{Unresolved: unresolved}
	}
	return rendered, nil
}

// visibleText 元素内所有w:t后代的文本拼接
func visibleText(el *etree.Element) string {
	var sb strings.Builder
	var collect func(e *etree.Element)
	collect = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == "t" {
				sb.WriteString(child.Text())
				continue
			}
			collect(child)
		}
	}
	collect(el)
	return sb.String()
}

// replaceInTexts 替换元素内所有w:t后代文本中的占位符
func replaceInTexts(el *etree.Element, replace func(string) string) {
	var apply func(e *etree.Element)
	apply = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == "t" {
				child.SetText(replace(child.Text()))
				continue
			}
			apply(child)
		}
	}
	apply(el)
}

// expandTableRows 克隆带列表占位符的表格行
// 每个匹配行按列表元素数复制，列表为空时整行移除
func expandTableRows(root *etree.Element, marker string, rows []RowVars) {
	if root == nil {
		return
	}

	var templateRows []*etree.Element
	var find func(e *etree.Element)
	find = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == "tr" && strings.Contains(visibleText(child), marker) {
				templateRows = append(templateRows, child)
				continue
			}
			find(child)
		}
	}
	find(root)

	prefix := strings.TrimPrefix(marker, "{")
	for _, tr := range templateRows {
		parent := tr.Parent()
		if parent == nil {
			continue
		}

		for _, row := range rows {
			clone := tr.Copy()
			replaceInTexts(clone, func(text string) string {
				for key, value := range row {
					text = strings.ReplaceAll(text, "{"+prefix+key+"}", value)
				}
				return text
			})
			// 逐个插到模板行之前，保持列表顺序
			parent.InsertChildAt(tr.Index(), clone)
		}
		parent.RemoveChild(tr)
	}
}

// applyConditionals 处理body顶层的条件块
// 标记为假的块整体移除(含标记段落)，为真的块只剥掉标记文本
func applyConditionals(root *etree.Element, flags map[string]bool) {
	if root == nil {
		return
	}

	body := findBody(root)
	if body == nil {
		return
	}

	removing := false
	closing := ""
	for _, child := range body.ChildElements() {
		text := visibleText(child)

		if removing {
			done := strings.Contains(text, closing)
			body.RemoveChild(child)
			if done {
				removing = false
				closing = ""
			}
			continue
		}

		m := conditionalPattern.FindStringSubmatch(text)
		if m == nil || m[1] != "#" {
			continue
		}
		flag := m[2]
		if flags[flag] {
			continue // 标记稍后统一剥除
		}

		closing = "{/" + flag + "}"
		done := strings.Contains(text, closing)
		body.RemoveChild(child)
		if !done {
			removing = true
		}
	}

	// 剩下的都是真值块的标记，从文本中剥掉
	replaceInTexts(body, func(text string) string {
		return conditionalPattern.ReplaceAllString(text, "")
	})
}

// findBody 定位body元素
func findBody(root *etree.Element) *etree.Element {
	for _, child := range root.ChildElements() {
		if child.Tag == "body" {
			return child
		}
	}
	return nil
}

// findUnresolved 收集渲染结果中残留的占位符，去重排序
func findUnresolved(rendered string) []string {
	matches := placeholderPattern.FindAllString(rendered, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var unresolved []string
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			unresolved = append(unresolved, m)
		}
	}
	sort.Strings(unresolved)
	return unresolved
}

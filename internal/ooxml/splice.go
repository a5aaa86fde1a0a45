package ooxml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
)

const (
	bodyCloseTag = "</w:body>"

	// 拼接点插入的分页段落，隔开模板封面和追加的正文
	pageBreakXML = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`
)

// SpliceBody 把fragment文档的body内容拼接进base文档
// 两个参数都是完整的DOCX包字节，返回拼接后的新包
// 任何失败都返回错误，由调用方决定是否降级到base
func SpliceBody(base, fragment []byte) ([]byte, error) {
	basePkg, err := OpenPackage(base)
	if err != nil {
		return nil, fmt.Errorf("failed to open base document: %v", err)
	}
	baseXML, err := basePkg.DocumentXML()
	if err != nil {
		return nil, err
	}

	fragPkg, err := OpenPackage(fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to open fragment document: %v", err)
	}
	fragXML, err := fragPkg.DocumentXML()
	if err != nil {
		return nil, err
	}

	inner, err := innerBody(fragXML)
	if err != nil {
		return nil, err
	}

	// 取最后一个body闭合标签作为拼接点
	idx := strings.LastIndex(baseXML, bodyCloseTag)
	if idx < 0 {
		return nil, fmt.Errorf("base document has no %s tag", bodyCloseTag)
	}
	merged := baseXML[:idx] + pageBreakXML + inner + baseXML[idx:]

	// 接受拼接结果前校验body标签数量
	// 数量不对说明拼出了结构非法的文档，宁可失败也不输出坏包
	if countBodyOpen(merged) != 1 || strings.Count(merged, bodyCloseTag) != 1 {
		return nil, models.ErrBodyTagMismatch
	}

	out, err := replacePart(base, DocumentPartName, []byte(merged))
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("splice produced an empty buffer")
	}
	return out, nil
}

// innerBody 提取文档XML中body开闭标签之间的内容
// 末尾的sectPr属于fragment自身的页面设置，拼接时剥掉
func innerBody(docXML string) (string, error) {
	open := strings.Index(docXML, "<w:body")
	if open < 0 {
		return "", fmt.Errorf("fragment document has no body open tag")
	}
	start := strings.Index(docXML[open:], ">")
	if start < 0 {
		return "", fmt.Errorf("fragment body open tag is not closed")
	}
	start += open + 1

	end := strings.LastIndex(docXML, bodyCloseTag)
	if end < 0 || end < start {
		return "", fmt.Errorf("fragment document has no body close tag")
	}

	inner := docXML[start:end]
	if sect := strings.Index(inner, "<w:sectPr"); sect >= 0 {
		inner = inner[:sect]
	}
	return inner, nil
}

// countBodyOpen 统计body开标签出现次数
// 同时匹配<w:body>和带属性的<w:body ...>两种写法
func countBodyOpen(s string) int {
	return strings.Count(s, "<w:body>") + strings.Count(s, "<w:body ")
}

// replacePart 重写ZIP包，替换其中一个部件的内容
// 其余部件原样复制，统一用DEFLATE重新压缩
func replacePart(data []byte, name string, content []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive for rewrite: %v", err)
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	replaced := false
	for _, f := range reader.File {
		w, err := zw.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create entry %s: %v", f.Name, err)
		}

		if f.Name == name {
			if _, err := w.Write(content); err != nil {
				return nil, fmt.Errorf("failed to write entry %s: %v", f.Name, err)
			}
			replaced = true
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open entry %s: %v", f.Name, err)
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to copy entry %s: %v", f.Name, err)
		}
	}

	if !replaced {
		return nil, fmt.Errorf("part %s not found during rewrite", name)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %v", err)
	}
	return buf.Bytes(), nil
}

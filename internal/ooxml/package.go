package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
)

// DocumentPartName 主文档部件在包内的路径
const DocumentPartName = "word/document.xml"

// Package DOCX包的只读视图
// DOCX本质是一个ZIP压缩包，部件按路径索引
type Package struct {
	files map[string]*zip.File

	// 缓存已解析的关系表
	rels *Relationships
}

// OpenPackage 从字节数据打开一个DOCX包
func OpenPackage(data []byte) (*Package, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %v", err)
	}

	p := &Package{
		files: make(map[string]*zip.File),
	}

	// 按部件名建立索引
	for _, f := range reader.File {
		p.files[f.Name] = f
	}

	return p, nil
}

// HasPart 检查包内是否存在指定部件
func (p *Package) HasPart(name string) bool {
	_, ok := p.files[name]
	return ok
}

// Part 读取指定部件的字节内容
func (p *Package) Part(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found in package", name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %v", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %v", name, err)
	}
	return data, nil
}

// DocumentXML 读取主文档部件的XML文本
// 缺少主文档部件说明不是有效的OOXML包
func (p *Package) DocumentXML() (string, error) {
	if !p.HasPart(DocumentPartName) {
		return "", models.ErrMissingDocumentPart
	}
	data, err := p.Part(DocumentPartName)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Relationships 解析主文档的关系表(word/_rels/document.xml.rels)
// 关系表不存在时返回空表，不视为错误
func (p *Package) Relationships() (*Relationships, error) {
	if p.rels != nil {
		return p.rels, nil
	}

	rels := &Relationships{}
	data, err := p.Part("word/_rels/document.xml.rels")
	if err != nil {
		p.rels = rels
		return rels, nil
	}
	if err := xml.Unmarshal(data, rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %v", err)
	}

	p.rels = rels
	return rels, nil
}

// MediaPart 解析关系目标对应的媒体部件
// target是相对word/目录的路径，例如media/image1.png
func (p *Package) MediaPart(target string) ([]byte, error) {
	name := path.Join("word", target)
	return p.Part(name)
}

// Relationships 主文档的关系集合
type Relationships struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Relationships []Relationship `xml:"Relationship"`
}

// Relationship 单条关系
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// RelTypeImage 图片关系类型
const RelTypeImage = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

// Target 根据关系ID查找目标路径，找不到返回空串
func (r *Relationships) Target(id string) string {
	for i := range r.Relationships {
		if r.Relationships[i].ID == id {
			return r.Relationships[i].Target
		}
	}
	return ""
}

// IsImage 检查关系ID是否指向图片
func (r *Relationships) IsImage(id string) bool {
	for i := range r.Relationships {
		if r.Relationships[i].ID == id {
			return r.Relationships[i].Type == RelTypeImage
		}
	}
	return false
}

// ImageFormat 从媒体部件路径推断图片格式
func ImageFormat(target string) string {
	ext := strings.ToLower(path.Ext(target))
	return strings.TrimPrefix(ext, ".")
}

package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/assignment-doc-engine/internal/models"
)

// TypeIndividual 个人作业模板类型
const TypeIndividual = "individual"

// TypeGroup 小组作业模板类型
const TypeGroup = "group"

// Store 模板文件仓库
// 模板按 {学院代码}_{individual|group}.docx 命名放在一个目录下，
// 匹配大小写不敏感；找不到学院模板时回退default_{type}.docx
type Store struct {
	dir    string
	cache  *gocache.Cache
	logger *logrus.Logger
}

// StoreOption Store配置选项
type StoreOption func(*Store)

// WithStoreLogger 设置日志记录器
func WithStoreLogger(logger *logrus.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore 创建模板仓库
// cacheTTL为模板字节的缓存时长，0使用默认10分钟
func NewStore(dir string, cacheTTL time.Duration, opts ...StoreOption) *Store {
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	s := &Store{
		dir:    dir,
		cache:  gocache.New(cacheTTL, 10*time.Minute),
		logger: logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Find 查找并读取模板文件
// 返回模板字节和命中的文件名
func (s *Store) Find(collegeCode, assignmentType string) ([]byte, string, error) {
	if assignmentType != TypeGroup {
		assignmentType = TypeIndividual
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list template directory %s: %v", s.dir, err)
	}

	wanted := strings.ToLower(fmt.Sprintf("%s_%s.docx", collegeCode, assignmentType))
	fallback := fmt.Sprintf("default_%s.docx", assignmentType)

	var fallbackName string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// Word编辑时的临时锁文件
		if strings.HasPrefix(name, "~$") {
			continue
		}

		lower := strings.ToLower(name)
		if collegeCode != "" && lower == wanted {
			data, err := s.read(name)
			return data, name, err
		}
		if lower == fallback {
			fallbackName = name
		}
	}

	if fallbackName != "" {
		s.logger.WithFields(logrus.Fields{
			"college_code": collegeCode,
			"template":     fallbackName,
		}).Debug("college template not found, using default template")
		data, err := s.read(fallbackName)
		return data, fallbackName, err
	}

	return nil, "", &models.TemplateNotFoundError{
		CollegeCode:    collegeCode,
		AssignmentType: assignmentType,
	}
}

// read 读取模板字节，命中缓存时不触盘
func (s *Store) read(name string) ([]byte, error) {
	if cached, found := s.cache.Get(name); found {
		if data, ok := cached.([]byte); ok {
			return data, nil
		}
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %v", name, err)
	}

	s.cache.Set(name, data, gocache.DefaultExpiration)
	return data, nil
}

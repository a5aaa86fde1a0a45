package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	engineconfig "github.com/fyerfyer/assignment-doc-engine/config"
	"github.com/fyerfyer/assignment-doc-engine/internal/document"
	"github.com/fyerfyer/assignment-doc-engine/internal/models"
	"github.com/fyerfyer/assignment-doc-engine/internal/services"
	"github.com/fyerfyer/assignment-doc-engine/internal/template"
)

// 命令行选项
type cliConfig struct {
	Command     string // 子命令 (parse/generate)
	ConfigFile  string // 配置文件路径
	LogLevel    string // 日志级别
	InputPath   string // 输入文档路径
	DocType     string // 输入文档类型 (docx/pdf)
	DataPath    string // 作业字段JSON路径
	CollegeCode string // 学院代码
	OutputPath  string // 输出DOCX路径
	TemplateDir string // 模板目录(覆盖配置文件)
}

func main() {
	cfg := parseFlags()

	// 加载配置文件
	appConfig, err := engineconfig.Load(cfg.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = appConfig.LogLevel
	}
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = appConfig.Template.Dir
	}

	logger := setupLogger(cfg.LogLevel)

	store := template.NewStore(cfg.TemplateDir, appConfig.Template.CacheTTL,
		template.WithStoreLogger(logger))
	merger := template.NewMerger(
		template.WithMergerLogger(logger),
		template.WithDefaultCollegeName(appConfig.Document.DefaultCollegeName),
	)
	svc := services.NewAssignmentService(
		services.WithLogger(logger),
		services.WithTemplateStore(store),
		services.WithMerger(merger),
	)

	switch cfg.Command {
	case "parse":
		err = runParse(svc, cfg)
	case "generate":
		err = runGenerate(svc, cfg, appConfig)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q, expected parse or generate\n", cfg.Command)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatalf("Command failed: %v", err)
	}
}

// runParse 解析输入文档并输出结构摘要
func runParse(svc *services.AssignmentService, cfg cliConfig) error {
	if cfg.InputPath == "" {
		return fmt.Errorf("parse requires -input")
	}

	data, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %v", err)
	}

	parsed, err := svc.ParseUpload(data, document.DocumentType(cfg.DocType))
	if err != nil {
		return err
	}

	summary, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode parse result: %v", err)
	}
	if cfg.OutputPath == "" {
		fmt.Println(string(summary))
		return nil
	}
	return os.WriteFile(cfg.OutputPath, summary, 0644)
}

// runGenerate 按学院模板生成作业文档
func runGenerate(svc *services.AssignmentService, cfg cliConfig, appConfig *engineconfig.Config) error {
	if cfg.OutputPath == "" {
		return fmt.Errorf("generate requires -out")
	}

	data := &models.AssignmentData{}
	if cfg.DataPath != "" {
		raw, err := os.ReadFile(cfg.DataPath)
		if err != nil {
			return fmt.Errorf("failed to read data file: %v", err)
		}
		if err := json.Unmarshal(raw, data); err != nil {
			return fmt.Errorf("failed to decode assignment data: %v", err)
		}
	}
	if data.FontFamily == "" {
		data.FontFamily = appConfig.Document.DefaultFontFamily
	}
	if data.FontSize == 0 {
		data.FontSize = appConfig.Document.DefaultFontSize
	}

	result, err := svc.GenerateFromTemplate(cfg.CollegeCode, data)
	if err != nil {
		return err
	}
	if result.Warning != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", result.Warning)
	}

	if err := os.WriteFile(cfg.OutputPath, result.Document, 0644); err != nil {
		return fmt.Errorf("failed to write output document: %v", err)
	}
	fmt.Printf("document %s written to %s (template %s)\n",
		result.ID, cfg.OutputPath, result.TemplateName)
	return nil
}

// parseFlags 解析命令行参数
func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	flag.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug/info/warn/error)")
	flag.StringVar(&cfg.InputPath, "input", "", "Input document path")
	flag.StringVar(&cfg.DocType, "type", "docx", "Input document type (docx/pdf)")
	flag.StringVar(&cfg.DataPath, "data", "", "Assignment data JSON path")
	flag.StringVar(&cfg.CollegeCode, "college", "", "College code for template lookup")
	flag.StringVar(&cfg.OutputPath, "out", "", "Output file path")
	flag.StringVar(&cfg.TemplateDir, "templates", "", "Template directory")
	flag.Parse()

	cfg.Command = flag.Arg(0)
	return cfg
}

// setupLogger 初始化日志记录器
func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger
}

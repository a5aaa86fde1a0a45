package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
type Config struct {
	Template TemplateConfig `mapstructure:"template"`
	Document DocumentConfig `mapstructure:"document"`
	LogLevel string         `mapstructure:"log_level"` // 日志级别：debug/info/warn/error
}

// TemplateConfig 模板仓库配置
type TemplateConfig struct {
	Dir      string        `mapstructure:"dir"`       // 模板目录
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 模板字节缓存时长
}

// DocumentConfig 文档默认格式配置
type DocumentConfig struct {
	DefaultFontFamily  string  `mapstructure:"default_font_family"`   // 默认字体
	DefaultFontSize    float64 `mapstructure:"default_font_size"`     // 默认字号(磅)
	DefaultMarginInch  float64 `mapstructure:"default_margin_inch"`   // 默认页边距(英寸)
	DefaultLineSpacing float64 `mapstructure:"default_line_spacing"`  // 默认行距倍数
	DefaultCollegeName string  `mapstructure:"default_college_name"`  // 学院名称缺失时的默认值
}

// Load 从文件和环境变量加载配置
func Load(configPath string) (*Config, error) {
	var config Config

	// 设置默认配置路径
	if configPath == "" {
		configPath = "config.yaml" // 默认在当前目录寻找config.yaml
	}

	// 初始化viper
	v := viper.New()

	// 设置配置文件路径和类型
	v.SetConfigFile(configPath)

	// 尝试读取配置文件
	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if notFound || os.IsNotExist(err) {
			log.Printf("Warning: Config file not found at %s, using defaults", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	// 设置默认值
	setDefaults(v)

	// 支持环境变量覆盖
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 解析配置到结构体
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	return &config, nil
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 模板默认配置
	v.SetDefault("template.dir", "./templates")
	v.SetDefault("template.cache_ttl", 10*time.Minute)

	// 文档默认格式
	v.SetDefault("document.default_font_family", "Times New Roman")
	v.SetDefault("document.default_font_size", 12.0)
	v.SetDefault("document.default_margin_inch", 1.0)
	v.SetDefault("document.default_line_spacing", 1.5)

	// 日志默认配置
	v.SetDefault("log_level", "info")
}

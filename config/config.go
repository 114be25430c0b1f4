package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

const (
	DefaultPort              = "8080"
	DefaultWeChatBaseURL     = "https://api.weixin.qq.com"
	DefaultAuthor            = "未来传媒"
	DefaultAPITimeout        = 10 * time.Second
	DefaultImageFetchTimeout = 15 * time.Second
)

// AppConfig 는 프로세스 시작 시 한 번 만들어져 라우터/미들웨어/서비스에 주입되는 불변 설정이다.
type AppConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
	WeChat  WeChatConfig  `yaml:"wechat"`

	// SecretToken 은 SECRET_TOKEN 환경변수에서만 읽는다. 설정 파일에 두지 않는다.
	SecretToken string `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	// CORSAllowedOrigins 가 비어 있으면 CORS 미들웨어를 붙이지 않는다.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// WeChatConfig 는 공식계정 플랫폼 호출에 관한 설정이다.
type WeChatConfig struct {
	BaseURL string `yaml:"base_url"`
	Author  string `yaml:"author"`
	// APITimeout 은 token, uploadimg, draft/add 각각의 호출에 적용된다.
	APITimeout time.Duration `yaml:"api_timeout"`
	// ImageFetchTimeout 은 본문 이미지 원본을 내려받는 호출 하나에 적용된다.
	ImageFetchTimeout time.Duration `yaml:"image_fetch_timeout"`
}

// Default returns the configuration used when neither config.yaml nor the
// environment override anything.
func Default() AppConfig {
	return AppConfig{
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Port: DefaultPort},
		WeChat: WeChatConfig{
			BaseURL:           DefaultWeChatBaseURL,
			Author:            DefaultAuthor,
			APITimeout:        DefaultAPITimeout,
			ImageFetchTimeout: DefaultImageFetchTimeout,
		},
	}
}

// Load 는 basePath 아래의 .env 와 config.yaml(선택)을 읽고 환경변수를 덮어쓴 뒤 검증한다.
// basePath 가 비어 있으면 GetBasePath 로 찾는다.
func Load(basePath string) (AppConfig, error) {
	if basePath == "" {
		basePath = GetBasePath()
	}

	// .env 는 없어도 된다.
	_ = godotenv.Load(filepath.Join(basePath, ENV_FILE))

	c := Default()
	data, err := os.ReadFile(filepath.Join(basePath, CONFIG_FILE))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return AppConfig{}, fmt.Errorf("config: parse %s: %w", CONFIG_FILE, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return AppConfig{}, fmt.Errorf("config: read %s: %w", CONFIG_FILE, err)
	}

	applyEnv(&c)
	fillDefaults(&c)

	if err := c.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

func applyEnv(c *AppConfig) {
	c.SecretToken = os.Getenv("SECRET_TOKEN")
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		c.Server.Port = v
	}
	if v := strings.TrimSpace(os.Getenv("WECHAT_API_BASE_URL")); v != "" {
		c.WeChat.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
}

// yaml 에서 빈 값으로 덮어쓴 항목은 기본값으로 되돌린다.
func fillDefaults(c *AppConfig) {
	d := Default()
	if c.Server.Port == "" {
		c.Server.Port = d.Server.Port
	}
	if c.WeChat.BaseURL == "" {
		c.WeChat.BaseURL = d.WeChat.BaseURL
	}
	if c.WeChat.Author == "" {
		c.WeChat.Author = d.WeChat.Author
	}
	if c.WeChat.APITimeout == 0 {
		c.WeChat.APITimeout = d.WeChat.APITimeout
	}
	if c.WeChat.ImageFetchTimeout == 0 {
		c.WeChat.ImageFetchTimeout = d.WeChat.ImageFetchTimeout
	}
	c.WeChat.BaseURL = strings.TrimRight(c.WeChat.BaseURL, "/")
}

// GetBasePath 는 현재 디렉터리부터 상위로 올라가며 config.yaml 이 있는 디렉터리를 찾는다.
// 찾지 못하면 현재 디렉터리를 반환한다.
func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd
}

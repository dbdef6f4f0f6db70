package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBrowser - единое значение по умолчанию и для запуска сессии,
// и для подписей при ее закрытии.
const DefaultBrowser = "chrome"

type Cfg struct {
	Database   Database
	Logger     Logger
	OpenAI     OpenAI
	Browser    Browser
	Run        Run
	Migrations Migrations
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// Enabled сообщает, нужно ли сохранять результаты в PostgreSQL.
func (d Database) Enabled() bool {
	return d.Host != ""
}

func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL - адрес для golang-migrate. Логин и пароль экранируются.
func (d Database) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

type Migrations struct {
	Path string
}

type Logger struct {
	Env   string
	Level string
	File  string
}

type OpenAI struct {
	KeyAI     string
	Model     string
	MaxTokens int
}

type Browser struct {
	Kind         string
	Display      string
	Headless     bool
	BrowsersPath string
	Install      bool
	PageLoad     time.Duration
	// ImplicitWait - таймаут поиска элемента по умолчанию у каждой сессии.
	ImplicitWait time.Duration
	// Wait - граница опроса у помощника ожидания (10 секунд).
	Wait time.Duration
}

type Run struct {
	Workers int
	// OSLabel используется только для подписей в отчете.
	OSLabel      string
	PagesFile    string
	StrictFooter bool
	TestRetries  int
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     env("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Logger: Logger{
			Env:   env("ENV", "dev"),
			Level: env("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		OpenAI: OpenAI{
			KeyAI:     os.Getenv("OPENAI_API_KEY"),
			Model:     env("OPENAI_MODEL", "gpt-4o"),
			MaxTokens: envInt("OPENAI_MAX_TOKENS", 300),
		},
		Browser: Browser{
			Kind:         env("BROWSER", DefaultBrowser),
			Display:      env("DISPLAY", ":0"),
			Headless:     envBoolDefault("PW_HEADLESS", true),
			BrowsersPath: env("PLAYWRIGHT_BROWSERS_PATH", ""),
			Install:      envBool("PW_INSTALL"),
			PageLoad:     envDuration("PAGE_LOAD_TIMEOUT", 30*time.Second),
			ImplicitWait: envDuration("IMPLICIT_WAIT", 3*time.Second),
			Wait:         envDuration("WAIT_TIMEOUT", 10*time.Second),
		},
		Run: Run{
			Workers:      envInt("WORKERS", 2),
			OSLabel:      env("OS_LABEL", runtime.GOOS),
			PagesFile:    os.Getenv("PAGES_FILE"),
			StrictFooter: envBool("STRICT_FOOTER"),
			TestRetries:  envInt("TEST_RETRIES", 3),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://migrations"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Cfg) Validate() error {
	if c.Run.Workers < 1 {
		return fmt.Errorf("WORKERS должен быть >= 1, получено %d", c.Run.Workers)
	}
	if c.Run.TestRetries < 0 {
		return fmt.Errorf("TEST_RETRIES не может быть отрицательным")
	}
	if c.Browser.Wait <= 0 || c.Browser.ImplicitWait < 0 {
		return fmt.Errorf("таймауты ожидания должны быть положительными")
	}
	return nil
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}

func envBoolDefault(key string, defaultValue bool) bool {
	if os.Getenv(key) == "" {
		return defaultValue
	}
	return envBool(key)
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

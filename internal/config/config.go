package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Search struct {
		JobTitle string `yaml:"job_title" validate:"required"`
		// Locations are processed strictly in this order.
		Locations []string `yaml:"locations" validate:"required,min=1"`
		// DomainMappings are ordered "country:domain" entries; first
		// key contained in a lowered location string wins.
		DomainMappings      []string `yaml:"domain_mappings"`
		DefaultDomain       string   `yaml:"default_domain"`
		MaxCardsPerLocation int      `yaml:"max_cards_per_location" validate:"min=1"`
		FromAgeDays         int      `yaml:"fromage_days" validate:"min=1"`
	} `yaml:"search"`

	Scraper struct {
		UserAgent      string        `yaml:"user_agent"`
		HeadlessMode   bool          `yaml:"headless_mode"`
		NavStrategy    string        `yaml:"nav_strategy" validate:"oneof=direct form"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		SettleDelayMin time.Duration `yaml:"settle_delay_min"`
		SettleDelayMax time.Duration `yaml:"settle_delay_max"`
	} `yaml:"scraper"`

	Pacing struct {
		MinDelay          time.Duration `yaml:"min_delay"`
		MaxDelay          time.Duration `yaml:"max_delay"`
		RequestsPerMinute int           `yaml:"requests_per_minute"`
	} `yaml:"pacing"`

	Slack struct {
		WebhookURL string        `yaml:"webhook_url" validate:"required,url"`
		Username   string        `yaml:"username"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"slack"`

	Debug struct {
		ScreenshotDir string `yaml:"screenshot_dir"`
	} `yaml:"debug"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`

		Adapters []LoggingAdapter `yaml:"adapters"`
	} `yaml:"logging"`
}

// LoggingAdapter configures one log output adapter.
type LoggingAdapter struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Search.DefaultDomain = "www.indeed.com"
	config.Search.MaxCardsPerLocation = 10
	config.Search.FromAgeDays = 7

	config.Scraper.HeadlessMode = true
	config.Scraper.NavStrategy = "direct"
	config.Scraper.RequestTimeout = 30 * time.Second
	config.Scraper.SettleDelayMin = 4 * time.Second
	config.Scraper.SettleDelayMax = 6 * time.Second
	config.Scraper.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	config.Pacing.MinDelay = 3 * time.Second
	config.Pacing.MaxDelay = 7 * time.Second
	config.Pacing.RequestsPerMinute = 20

	config.Slack.Username = "Job Alert Bot"
	config.Slack.Timeout = 15 * time.Second

	config.Debug.ScreenshotDir = "logs/screenshots"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if webhook := os.Getenv("SLACK_WEBHOOK_URL"); webhook != "" {
		c.Slack.WebhookURL = webhook
	}

	if username := os.Getenv("SLACK_USERNAME"); username != "" {
		c.Slack.Username = username
	}

	if jobTitle := os.Getenv("JOB_TITLE"); jobTitle != "" {
		c.Search.JobTitle = jobTitle
	}

	if locations := os.Getenv("JOB_LOCATIONS"); locations != "" {
		c.Search.Locations = splitAndTrim(locations)
	}

	if mappings := os.Getenv("DOMAIN_MAPPINGS"); mappings != "" {
		c.Search.DomainMappings = splitAndTrim(mappings)
	}

	if defaultDomain := os.Getenv("DEFAULT_DOMAIN"); defaultDomain != "" {
		c.Search.DefaultDomain = defaultDomain
	}

	if maxCards := os.Getenv("MAX_JOBS_PER_LOCATION"); maxCards != "" {
		if cards, err := strconv.Atoi(maxCards); err == nil {
			c.Search.MaxCardsPerLocation = cards
		}
	}

	if fromAge := os.Getenv("FROMAGE_DAYS"); fromAge != "" {
		if days, err := strconv.Atoi(fromAge); err == nil {
			c.Search.FromAgeDays = days
		}
	}

	if userAgent := os.Getenv("USER_AGENT"); userAgent != "" {
		c.Scraper.UserAgent = userAgent
	}

	if headless := os.Getenv("HEADLESS_MODE"); headless != "" {
		c.Scraper.HeadlessMode = headless == "true" || headless == "1"
	}

	if strategy := os.Getenv("NAV_STRATEGY"); strategy != "" {
		c.Scraper.NavStrategy = strategy
	}

	if timeout := os.Getenv("REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Scraper.RequestTimeout = d
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if dir := os.Getenv("SCREENSHOT_DIR"); dir != "" {
		c.Debug.ScreenshotDir = dir
	}
}

// Validate checks the loaded configuration against the struct constraints
// and the cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Scraper.SettleDelayMax < c.Scraper.SettleDelayMin {
		return fmt.Errorf("invalid configuration: settle_delay_max is below settle_delay_min")
	}

	if c.Pacing.MaxDelay < c.Pacing.MinDelay {
		return fmt.Errorf("invalid configuration: pacing max_delay is below min_delay")
	}

	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

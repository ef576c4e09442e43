package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"payslip-studio/payslip-tools/internal/scheduler"
	"payslip-studio/payslip-tools/pkg/storage"
)

// Config represents the configuration of both payslip tools
type Config struct {
	Render   RenderConfig     `json:"render"`
	Testdata TestdataConfig   `json:"testdata"`
	S3       storage.S3Config `json:"s3"`
	Logging  LoggingConfig    `json:"logging"`
}

// RenderConfig configures payslip-render
type RenderConfig struct {
	InputDir string `json:"input_dir" validate:"required"`
	// OutputDir is a directory or s3://bucket/prefix; empty means next to
	// the input files.
	OutputDir         string `json:"output_dir"`
	ReportPath        string `json:"report_path" validate:"omitempty,report"`
	Schedule          string `json:"schedule" validate:"omitempty,cron"`
	Strict            bool   `json:"strict"`
	TrailingPageBreak bool   `json:"trailing_page_break"`
	Author            string `json:"author"`
}

// TestdataConfig configures payslip-testdata
type TestdataConfig struct {
	Employees    int    `json:"employees" validate:"gte=0"`
	Months       int    `json:"months" validate:"gte=0"`
	OutputDir    string `json:"output_dir" validate:"required"`
	Seed         uint64 `json:"seed"`
	ManifestPath string `json:"manifest_path" validate:"omitempty,report"`
	Schedule     string `json:"schedule" validate:"omitempty,cron"`
}

// LoggingConfig
type LoggingConfig struct {
	Level  string `json:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" validate:"oneof=console json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			InputDir:          "test_data",
			TrailingPageBreak: true,
		},
		Testdata: TestdataConfig{
			Employees: 5,
			Months:    3,
			OutputDir: "test_data",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from file and environment variables. A
// .env file in the working directory is loaded into the environment first.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := overrideWithEnv(config); err != nil {
		return nil, err
	}

	return config, nil
}

func overrideWithEnv(config *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("PAYSLIP_INPUT_DIR", &config.Render.InputDir)
	setString("PAYSLIP_RENDER_OUTPUT", &config.Render.OutputDir)
	setString("PAYSLIP_REPORT", &config.Render.ReportPath)
	setString("PAYSLIP_RENDER_SCHEDULE", &config.Render.Schedule)
	setString("PAYSLIP_TESTDATA_OUTPUT", &config.Testdata.OutputDir)
	setString("PAYSLIP_MANIFEST", &config.Testdata.ManifestPath)
	setString("PAYSLIP_TESTDATA_SCHEDULE", &config.Testdata.Schedule)
	setString("LOG_LEVEL", &config.Logging.Level)
	setString("LOG_FORMAT", &config.Logging.Format)

	setString("AWS_REGION", &config.S3.Region)
	setString("PAYSLIP_S3_ENDPOINT", &config.S3.Endpoint)
	setString("AWS_ACCESS_KEY_ID", &config.S3.AccessKeyID)
	setString("AWS_SECRET_ACCESS_KEY", &config.S3.SecretAccessKey)

	if v := os.Getenv("PAYSLIP_EMPLOYEES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PAYSLIP_EMPLOYEES: %w", err)
		}
		config.Testdata.Employees = n
	}
	if v := os.Getenv("PAYSLIP_MONTHS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PAYSLIP_MONTHS: %w", err)
		}
		config.Testdata.Months = n
	}
	if v := os.Getenv("PAYSLIP_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid PAYSLIP_SEED: %w", err)
		}
		config.Testdata.Seed = n
	}
	if v := os.Getenv("PAYSLIP_STRICT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PAYSLIP_STRICT: %w", err)
		}
		config.Render.Strict = b
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("cron", func(fl validator.FieldLevel) bool {
		return scheduler.ValidateSpec(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("report", func(fl validator.FieldLevel) bool {
		path := strings.ToLower(fl.Field().String())
		return strings.HasSuffix(path, ".csv") || strings.HasSuffix(path, ".xlsx")
	})
	return v
}

// Validate checks the configuration after flags have been applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/voyage-finance/llamapay-cli/errs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Defaults point at the snowgenesis test subnet.
const (
	DefaultLlamaPayFactoryContract = "0xf8f63878d5d1e6fb8629450aa8b05b8bd3ceb0db"
	DefaultNetworkID               = "52125"
	DefaultSubgraphURL             = "https://graph-api.test.snowgenesis.com/llamapay"
	DefaultRPCURL                  = "https://usd.test.snowgenesis.com/rpc/"
	DefaultWUSD                    = "0xc2d087e6db960f561da48e406eda2f8e09fe92e9"
	DefaultABIDir                  = "contracts/abis"
	DefaultConfirmTimeout          = 5 * time.Minute
	DefaultHTTPServerPort          = "8080"
)

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Key                     string        `validate:"omitempty,hexadecimal"`
	LlamaPayFactoryContract string        `validate:"required,eth_addr"`
	RPCURL                  string        `validate:"required,url"`
	NetworkID               string        `validate:"required"`
	ClientURL               string        `validate:"required,url"`
	WUSD                    string        `validate:"required,eth_addr"`
	ABIDir                  string        `validate:"required"`
	ConfirmTimeout          time.Duration `validate:"gt=0"`
	LogLevel                string        `validate:"oneof=debug info warn error"`
	HTTPServerPort          string        `validate:"required,numeric"`
}

// Load reads .env files from dir (missing files are skipped) and then the
// process environment. LLAMA_ENV selects .env.<env>.local and .env.<env>.
func Load(dir string) (*Config, error) {
	env, exists := os.LookupEnv("LLAMA_ENV")
	if !exists {
		env = "dev"
	}
	var files []string
	for _, name := range []string{".env." + env + ".local", ".env." + env, ".env"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}
	if len(files) > 0 {
		// godotenv never overrides variables that are already set, so the
		// first file wins over later ones.
		if err := godotenv.Load(files...); err != nil {
			return nil, errs.Wrap(errs.KindConfiguration, err, "error loading env files")
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	c := &Config{
		Key:                     strings.TrimSpace(os.Getenv("KEY")),
		LlamaPayFactoryContract: getEnv("LLAMA_PAY_FACTORY_CONTRACT", DefaultLlamaPayFactoryContract),
		RPCURL:                  getEnv("RPC_URL", DefaultRPCURL),
		NetworkID:               getEnv("NETWORK_ID", DefaultNetworkID),
		ClientURL:               getEnv("CLIENT_URL", DefaultSubgraphURL),
		WUSD:                    getEnv("WUSD", DefaultWUSD),
		ABIDir:                  getEnv("ABI_DIR", DefaultABIDir),
		ConfirmTimeout:          DefaultConfirmTimeout,
		LogLevel:                strings.ToLower(getEnv("LOG_LEVEL", "info")),
		HTTPServerPort:          getEnv("HTTP_SERVER_PORT", DefaultHTTPServerPort),
	}
	if raw := os.Getenv("CONFIRM_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errs.Wrapf(errs.KindConfiguration, err, "invalid CONFIRM_TIMEOUT %q", raw)
		}
		c.ConfirmTimeout = d
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "invalid configuration")
	}
	return nil
}

// RequireKey fails when no signing credential is configured.
func (c *Config) RequireKey() error {
	if c.Key == "" {
		return errs.New(errs.KindConfiguration, ".env KEY variable must exist")
	}
	return nil
}

// WithOverrides returns a copy with command-line overrides applied.
func (c *Config) WithOverrides(rpcURL, networkID string) (*Config, error) {
	cp := *c
	if rpcURL != "" {
		cp.RPCURL = rpcURL
	}
	if networkID != "" {
		cp.NetworkID = networkID
	}
	if err := cp.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	return &cp, nil
}

// ABIPath resolves an ABI file name against ABIDir.
func (c *Config) ABIPath(name string) string {
	return filepath.Join(c.ABIDir, name)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

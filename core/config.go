package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the settings shared by the lms client and the sandbox server.
type Config struct {
	Env   string
	Debug bool
	Build string

	AppName        string
	APIBaseURL     string
	PasswordPolicy bool // check passwords client side before register and user creation

	CredentialStore string // file | memory | redis
	CredentialPath  string
	RedisAddr       string
	RedisDB         int
	RedisKey        string

	RollbarToken string
	OtelEndpoint string
	OtelInsecure bool

	Sandbox struct {
		Addr               string
		SecretKey          string
		JWTExpirationDelta time.Duration
		SeedUsers          bool
	}
}

// NewConfig reads the configuration from the environment, after loading `config/.env.<env>` if it exists.
// ENV selects the environment (DEV by default, TEST, QA or PROD) and is also the env var prefix.
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Masomo LMS")
	v.SetDefault("apiBaseURL", "http://localhost:8080/api/v1")
	v.SetDefault("passwordPolicy", false)
	v.SetDefault("credentialStore", "file")
	v.SetDefault("credentialPath", defaultCredentialPath())
	v.SetDefault("redisAddr", "127.0.0.1:6379")
	v.SetDefault("redisDB", 0)
	v.SetDefault("redisKey", "masomo:lms:token")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("otelEndpoint", "")
	v.SetDefault("otelInsecure", false)
	v.SetDefault("sandboxAddr", ":8080")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("jwtExpirationDelta", 24*time.Hour)
	v.SetDefault("seedUsers", true)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("credentialStore", "memory")
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:             env,
		Debug:           v.GetBool("debug"),
		Build:           v.GetString("build"),
		AppName:         v.GetString("appName"),
		APIBaseURL:      strings.TrimRight(v.GetString("apiBaseURL"), "/"),
		PasswordPolicy:  v.GetBool("passwordPolicy"),
		CredentialStore: strings.ToLower(v.GetString("credentialStore")),
		CredentialPath:  v.GetString("credentialPath"),
		RedisAddr:       v.GetString("redisAddr"),
		RedisDB:         v.GetInt("redisDB"),
		RedisKey:        v.GetString("redisKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		OtelEndpoint:    v.GetString("otelEndpoint"),
		OtelInsecure:    v.GetBool("otelInsecure"),
	}
	conf.Sandbox.Addr = v.GetString("sandboxAddr")
	conf.Sandbox.SecretKey = v.GetString("secretKey")
	conf.Sandbox.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")
	conf.Sandbox.SeedUsers = v.GetBool("seedUsers")
	return conf, nil
}

func defaultCredentialPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "masomo-lms", "token")
}

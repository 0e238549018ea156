package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database engines
const (
	EnginePostgres = "postgres"
	EngineMongo    = "mongodb"
	EngineMemory   = "memory"
)

// Email providers
const (
	EmailProviderSendgrid = "sendgrid"
	EmailProviderSMTP     = "smtp"
	EmailProviderConsole  = "console"
)

type (
	ServerConfig struct {
		Host               string
		Address            string
		DebugHost          string
		ShutdownTimeout    time.Duration
		DisableReqLogs     bool
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Name          string
		DisableTLS    bool
		URI           string // mongodb only
	}

	EmailConfig struct {
		Provider       string
		SendgridAPIKey string
		SMTPHost       string
		SMTPPort       int
		SMTPUser       string
		SMTPPassword   string
		FromAddress    string
		FromName       string
	}

	NewsletterConfig struct {
		Concurrency int
		SendTimeout time.Duration
		QueueSize   int
	}

	HomepageConfig struct {
		CacheTTL time.Duration
	}

	Config struct {
		Env             string
		Build           string
		Debug           bool
		TestMode        bool
		AppName         string
		SecretKey       string
		FrontendBaseURL string
		RollbarToken    string

		Server     ServerConfig
		Database   DatabaseConfig
		Email      EmailConfig
		Newsletter NewsletterConfig
		Homepage   HomepageConfig
	}
)

// NewConfig loads the configuration from defaults, `config/.env.<env>` and the environment.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Madrasa")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)

	v.SetDefault("database.engine", EnginePostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "madrasa")
	v.SetDefault("database.password", "madrasa")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.name", "madrasa")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.uri", "mongodb://localhost:27017")

	v.SetDefault("email.provider", EmailProviderSendgrid)
	v.SetDefault("email.sendgridApiKey", "")
	v.SetDefault("email.smtpHost", "")
	v.SetDefault("email.smtpPort", 587)
	v.SetDefault("email.smtpUser", "")
	v.SetDefault("email.smtpPassword", "")
	v.SetDefault("email.fromAddress", "noreply@localhost")
	v.SetDefault("email.fromName", "")

	v.SetDefault("newsletter.concurrency", 10)
	v.SetDefault("newsletter.sendTimeout", 15*time.Second)
	v.SetDefault("newsletter.queueSize", 32)

	v.SetDefault("homepage.cacheTTL", 30*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := "config/.env." + strings.ToLower(env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:             env,
		Build:           v.GetString("build"),
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		AppName:         v.GetString("appName"),
		SecretKey:       v.GetString("secretKey"),
		FrontendBaseURL: strings.TrimRight(v.GetString("frontendBaseURL"), "/"),
		RollbarToken:    v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Address:            v.GetString("server.address"),
			DebugHost:          v.GetString("server.debugHost"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:     v.GetBool("server.disableReqLogs"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        strings.ToLower(v.GetString("database.engine")),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			Name:          v.GetString("database.name"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			URI:           v.GetString("database.uri"),
		},
		Email: EmailConfig{
			Provider:       strings.ToLower(v.GetString("email.provider")),
			SendgridAPIKey: v.GetString("email.sendgridApiKey"),
			SMTPHost:       v.GetString("email.smtpHost"),
			SMTPPort:       v.GetInt("email.smtpPort"),
			SMTPUser:       v.GetString("email.smtpUser"),
			SMTPPassword:   v.GetString("email.smtpPassword"),
			FromAddress:    v.GetString("email.fromAddress"),
			FromName:       v.GetString("email.fromName"),
		},
		Newsletter: NewsletterConfig{
			Concurrency: v.GetInt("newsletter.concurrency"),
			SendTimeout: v.GetDuration("newsletter.sendTimeout"),
			QueueSize:   v.GetInt("newsletter.queueSize"),
		},
		Homepage: HomepageConfig{
			CacheTTL: v.GetDuration("homepage.cacheTTL"),
		},
	}
	if conf.Email.FromName == "" {
		conf.Email.FromName = conf.AppName
	}
	return conf
}

// Address returns the database "host:port".
func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
}

// From returns the sender address used for outgoing emails.
func (ec EmailConfig) From() mail.Address {
	return mail.Address{Name: ec.FromName, Address: ec.FromAddress}
}

var placeholderKeyPrefixes = []string{"your", "changeme", "xxx", "re_xxx", "re_123", "sg.xxx", "<"}

// Configured reports whether the email provider has real credentials.
// When it does not, newsletters are only previewed.
func (ec EmailConfig) Configured() bool {
	switch ec.Provider {
	case EmailProviderConsole:
		return true
	case EmailProviderSMTP:
		return ec.SMTPHost != "" && !isPlaceholder(ec.SMTPHost)
	default:
		return ec.SendgridAPIKey != "" && !isPlaceholder(ec.SendgridAPIKey)
	}
}

func isPlaceholder(val string) bool {
	val = strings.ToLower(strings.TrimSpace(val))
	for _, prefix := range placeholderKeyPrefixes {
		if strings.HasPrefix(val, prefix) {
			return true
		}
	}
	return false
}

package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	Log      LogConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	MyInvois MyInvoisConfig
	Archive  ArchiveConfig
	Currency CurrencyConfig
	EInvoice EInvoiceConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel de log: trace, debug, info, warn, error.
type LogConfig struct {
	Level string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MyInvoisConfig credenciales y endpoints del API de LHDN.
// Env: "dev" simula respuestas sin red, "sandbox" usa preprod, "production" el API real.
type MyInvoisConfig struct {
	Env          string
	ClientID     string
	ClientSecret string
	APIBaseURL   string // vacío = según Env
	IdentityURL  string // vacío = según Env
	PortalURL    string // vacío = según Env
	Timeout      time.Duration
	OnBehalfOf   string // TIN del contribuyente cuando se actúa como intermediario
}

// IsDev indica si no se debe contactar a LHDN.
func (c MyInvoisConfig) IsDev() bool {
	return c.Env == "" || c.Env == "dev"
}

// ArchiveConfig almacenamiento S3/MinIO de los documentos enviados. Endpoint vacío = deshabilitado.
type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	URLExpiry time.Duration
}

// Enabled indica si hay archivo configurado.
func (c ArchiveConfig) Enabled() bool {
	return c.Endpoint != ""
}

// CurrencyConfig catálogo de monedas opcional (YAML).
type CurrencyConfig struct {
	CataloguePath string
}

// EInvoiceConfig parámetros del ciclo de vida del e-Invoice.
type EInvoiceConfig struct {
	CountdownTick   time.Duration
	PipelineTimeout time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, MYINVOIS_CLIENT_ID, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "myinvois-erp"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "myinvois_erp"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "myinvois-erp"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		MyInvois: MyInvoisConfig{
			Env:          strings.ToLower(getString(v, "MYINVOIS_ENV", "dev")),
			ClientID:     getString(v, "MYINVOIS_CLIENT_ID", ""),
			ClientSecret: getString(v, "MYINVOIS_CLIENT_SECRET", ""),
			APIBaseURL:   getString(v, "MYINVOIS_API_BASE_URL", ""),
			IdentityURL:  getString(v, "MYINVOIS_IDENTITY_URL", ""),
			PortalURL:    getString(v, "MYINVOIS_PORTAL_URL", ""),
			Timeout:      time.Duration(getInt(v, "MYINVOIS_TIMEOUT_SECONDS", 30)) * time.Second,
			OnBehalfOf:   getString(v, "MYINVOIS_ON_BEHALF_OF", ""),
		},
		Archive: ArchiveConfig{
			Endpoint:  getString(v, "ARCHIVE_ENDPOINT", ""),
			AccessKey: getString(v, "ARCHIVE_ACCESS_KEY", ""),
			SecretKey: getString(v, "ARCHIVE_SECRET_KEY", ""),
			Bucket:    getString(v, "ARCHIVE_BUCKET", "einvoices"),
			Region:    getString(v, "ARCHIVE_REGION", "us-east-1"),
			UseSSL:    getBool(v, "ARCHIVE_USE_SSL", false),
			URLExpiry: time.Duration(getInt(v, "ARCHIVE_URL_EXPIRY_MINUTES", 15)) * time.Minute,
		},
		Currency: CurrencyConfig{
			CataloguePath: getString(v, "CURRENCY_CATALOGUE_PATH", ""),
		},
		EInvoice: EInvoiceConfig{
			CountdownTick:   time.Duration(getInt(v, "COUNTDOWN_TICK_SECONDS", 60)) * time.Second,
			PipelineTimeout: time.Duration(getInt(v, "EINVOICE_PIPELINE_TIMEOUT_SECONDS", 30)) * time.Second,
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en production")
	}
	if !cfg.MyInvois.IsDev() && (cfg.MyInvois.ClientID == "" || cfg.MyInvois.ClientSecret == "") {
		return nil, fmt.Errorf("config: MYINVOIS_CLIENT_ID y MYINVOIS_CLIENT_SECRET son obligatorios en %s", cfg.MyInvois.Env)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Archivos opcionales que Load intenta leer, en orden. Las variables de entorno ganan siempre.
var defaultFiles = []string{".env", "config.env", "config/config.env"}

// Config agrupa la configuración de la aplicación.
type Config struct {
	App  AppConfig
	DB   DBConfig
	JWT  JWTConfig
	HTTP HTTPConfig
	Log  LogConfig
	POS  POSConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig conexión al almacenamiento.
// DatabaseURL, si está definido, reemplaza a Host/Port/User/Password/DBName/SSLMode.
type DBConfig struct {
	Driver      string
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int  // >= 2: las lecturas no esperan al escritor
	AutoMigrate bool // cmd/api aplica las migraciones embebidas al arrancar
}

// ConnectionString DATABASE_URL o, si no existe, el DSN armado por partes.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN arma la URL postgres escapando usuario y contraseña.
func (c DBConfig) DSN() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// JWTConfig firma y emisión de tokens.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerFile string // /docs solo se monta si el archivo existe
}

// Addr dirección de escucha host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig nivel del logger: debug, info, warn, error.
type LogConfig struct {
	Level string
}

// POSConfig parámetros del punto de venta.
type POSConfig struct {
	ReceiptPrefix       string
	DefaultMinimumStock int // umbral de stock bajo cuando el producto no define uno
}

// Load lee .env / config.env si existen y luego las variables de entorno
// (APP_ENV, DB_DRIVER, DATABASE_URL, JWT_SECRET, RECEIPT_PREFIX, ...).
func Load() (*Config, error) {
	return LoadFrom(defaultFiles...)
}

// LoadFrom como Load pero con una lista explícita de archivos opcionales.
func LoadFrom(files ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("leer %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetInt("JWT_EXPIRATION_MINUTES"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		HTTP: HTTPConfig{
			Host:        v.GetString("HTTP_HOST"),
			Port:        v.GetInt("HTTP_PORT"),
			SwaggerFile: v.GetString("SWAGGER_FILE"),
		},
		Log: LogConfig{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		POS: POSConfig{
			ReceiptPrefix:       v.GetString("RECEIPT_PREFIX"),
			DefaultMinimumStock: v.GetInt("POS_DEFAULT_MINIMUM_STOCK"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "pos-api")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "pos")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("JWT_EXPIRATION_MINUTES", 720)
	v.SetDefault("JWT_ISSUER", "pos-api")

	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("SWAGGER_FILE", "./docs/swagger.json")

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("RECEIPT_PREFIX", "POS")
	v.SetDefault("POS_DEFAULT_MINIMUM_STOCK", 5)
}

// validate rechaza combinaciones que el servidor no puede usar.
func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER inválido: %q (postgres|memory)", c.DB.Driver)
	}
	if c.DB.MaxConns < 2 {
		return fmt.Errorf("DB_MAX_CONNS debe ser >= 2 (actual %d)", c.DB.MaxConns)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT inválido: %d", c.HTTP.Port)
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MINUTES debe ser positivo")
	}
	if c.POS.DefaultMinimumStock < 0 {
		return fmt.Errorf("POS_DEFAULT_MINIMUM_STOCK no puede ser negativo")
	}
	return nil
}

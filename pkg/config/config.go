package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/jhoicas/inventario-sync/internal/domain"
)

// Config agrupa la configuración del servicio (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App         AppConfig
	DB          DBConfig
	JWT         JWTConfig
	HTTP        HTTPConfig
	Marketplace MarketplaceConfig
	UOM         UOMConfig
	Pipeline    PipelineConfig
	Export      ExportConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
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
	Schema      string // esquema de las tablas de inventario (amazon_data)
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

// JWTConfig configuración de JWT para los endpoints de operación.
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

// MarketplaceConfig acceso a la API de inventario del marketplace.
type MarketplaceConfig struct {
	Adapter        string // "http" o "mock"
	BaseURL        string
	AccessToken    string
	SellerID       string
	TimeoutSeconds int
	Markets        []string // códigos activos, en orden de recolección
	PageSize       int
}

// UOMConfig origen tabular de los factores UOM.
type UOMConfig struct {
	SourcePath     string // .csv o .xlsx
	SheetName      string // solo xlsx; vacío = primera hoja
	Encoding       string // solo csv: utf-8, windows-1252, iso-8859-1
	BackfillOutput string
}

// PipelineConfig banderas del pipeline parametrizado.
type PipelineConfig struct {
	EnableEnrichment  bool
	EnableUOM         bool
	MarketConcurrency int
	UpsertChunk       int
}

// ExportConfig export plano del resumen.
type ExportConfig struct {
	Dir     string
	Formats []string // csv, parquet, pdf
}

// DefaultMarkets mercados EU del reporte diario.
var DefaultMarkets = []string{"DE", "FR", "IT", "ES", "NL", "PL", "SE", "BE"}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, MARKETS, PAGE_SIZE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	sourcePath := getString(v, "UOM_SOURCE_PATH", "assets/Produktliste.xlsx")
	return &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-sync"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "inventory"),
			SSLMode:     getString(v, "DB_SSLMODE", "require"),
			Schema:      getString(v, "DB_SCHEMA", "amazon_data"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "inventario-sync"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Marketplace: MarketplaceConfig{
			Adapter:        strings.ToLower(getString(v, "MARKETPLACE_ADAPTER", "http")),
			BaseURL:        getString(v, "MARKETPLACE_BASE_URL", "https://sellingpartnerapi-eu.amazon.com"),
			AccessToken:    getString(v, "MARKETPLACE_ACCESS_TOKEN", ""),
			SellerID:       getString(v, "MARKETPLACE_SELLER_ID", ""),
			TimeoutSeconds: getInt(v, "MARKETPLACE_TIMEOUT_SECONDS", 30),
			Markets:        getList(v, "MARKETS", DefaultMarkets),
			PageSize:       getInt(v, "PAGE_SIZE", 100),
		},
		UOM: UOMConfig{
			SourcePath:     sourcePath,
			SheetName:      getString(v, "UOM_SHEET_NAME", ""),
			Encoding:       getString(v, "UOM_SOURCE_ENCODING", "utf-8"),
			BackfillOutput: getString(v, "UOM_BACKFILL_OUTPUT", filepath.Join(filepath.Dir(sourcePath), "uom_with_asin.csv")),
		},
		Pipeline: PipelineConfig{
			EnableEnrichment:  getBool(v, "PIPELINE_ENABLE_ENRICHMENT", true),
			EnableUOM:         getBool(v, "PIPELINE_ENABLE_UOM", true),
			MarketConcurrency: getInt(v, "PIPELINE_MARKET_CONCURRENCY", 1),
			UpsertChunk:       getInt(v, "PIPELINE_UPSERT_CHUNK", 1000),
		},
		Export: ExportConfig{
			Dir:     getString(v, "EXPORT_DIR", "exports"),
			Formats: getList(v, "EXPORT_FORMATS", []string{"csv"}),
		},
	}
}

// Validate revisa los valores obligatorios. Devuelve un error que envuelve
// domain.ErrConfiguration para que el caller aborte antes de escribir.
func (c *Config) Validate() error {
	var problems []string
	if len(c.Marketplace.Markets) == 0 {
		problems = append(problems, "MARKETS vacío")
	}
	if c.Marketplace.PageSize <= 0 {
		problems = append(problems, "PAGE_SIZE debe ser > 0")
	}
	switch c.Marketplace.Adapter {
	case "mock":
	case "http":
		if c.Marketplace.AccessToken == "" {
			problems = append(problems, "MARKETPLACE_ACCESS_TOKEN requerido con MARKETPLACE_ADAPTER=http")
		}
		if c.Pipeline.EnableEnrichment && c.Marketplace.SellerID == "" {
			problems = append(problems, "MARKETPLACE_SELLER_ID requerido para enriquecer ASIN")
		}
	default:
		problems = append(problems, fmt.Sprintf("MARKETPLACE_ADAPTER desconocido: %q", c.Marketplace.Adapter))
	}
	if c.Pipeline.EnableUOM && c.UOM.SourcePath == "" {
		problems = append(problems, "UOM_SOURCE_PATH requerido")
	}
	if len(c.Export.Formats) == 0 {
		problems = append(problems, "EXPORT_FORMATS vacío: se requiere al menos un formato")
	}
	for _, f := range c.Export.Formats {
		switch f {
		case "csv", "parquet", "pdf":
		default:
			problems = append(problems, fmt.Sprintf("EXPORT_FORMATS: formato desconocido %q", f))
		}
	}
	if !validIdentifier(c.DB.Schema) {
		problems = append(problems, fmt.Sprintf("DB_SCHEMA inválido: %q", c.DB.Schema))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// validIdentifier acepta solo nombres SQL simples; el esquema se interpola en las consultas.
func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
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
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

// getList lee listas separadas por coma ("DE, fr ,IT") normalizando a mayúsculas
// los códigos de mercado y a minúsculas el resto.
func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	upper := key == "MARKETS"
	var out []string
	for _, part := range strings.Split(v.GetString(key), ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		if upper {
			p = strings.ToUpper(p)
		} else {
			p = strings.ToLower(p)
		}
		out = append(out, p)
	}
	return out
}

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Store    StoreConfig
	Ai       AIConfig
	Weather  WeatherConfig
	Catalog  CatalogConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	JwtSecret          string
	TracingEnabled     bool
}

type DatabaseConfig struct {
	Connection string
}

// StoreConfig selects the keyed session store. "memory" keeps all
// session state in-process; "redis" shares it across instances.
type StoreConfig struct {
	Backend  string
	RedisURL string
}

type AIConfig struct {
	Provider  string // "agent" or "ollama"
	BaseURL   string
	ModelName string
	AgentId   string
	AliasId   string
}

type WeatherConfig struct {
	GeocodeURL  string
	ForecastURL string
}

type CatalogConfig struct {
	Path     string
	DemoPath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			TracingEnabled:     getEnvAsBool("TRACING_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Store: StoreConfig{
			Backend:  getEnv("STORE_BACKEND", "memory"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Ai: AIConfig{
			Provider:  getEnv("LLM_PROVIDER", "ollama"),
			BaseURL:   getEnv("LLM_BASE_URL", ""),
			ModelName: getEnv("LLM_MODEL", "llama3"),
			AgentId:   getEnv("LLM_AGENT_ID", ""),
			AliasId:   getEnv("LLM_AGENT_ALIAS_ID", ""),
		},
		Weather: WeatherConfig{
			GeocodeURL:  getEnv("WEATHER_GEOCODE_URL", ""),
			ForecastURL: getEnv("WEATHER_FORECAST_URL", ""),
		},
		Catalog: CatalogConfig{
			Path:     getEnv("CATALOG_PATH", "assets/clothing_catalog.csv"),
			DemoPath: getEnv("DEMO_CATALOG_PATH", "assets/demo_catalog.csv"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

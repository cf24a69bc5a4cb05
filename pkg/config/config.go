package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OpenAI   OpenAIConfig
	RAG      RAGConfig
	Ingest   IngestConfig
	Metrics  MetricsConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// RAGConfig holds every tunable of the retrieval-and-answer pipeline. The
// column and function names are configuration because the corpus schema has
// shipped under more than one naming convention.
type RAGConfig struct {
	EmbeddingModel          string
	CompletionModel         string
	EmbeddingDimensions     int
	TopK                    int
	MaxContextWords         int
	MaxQuestionLength       int
	RequestTimeout          time.Duration
	CircuitFailureThreshold int
	CircuitRecoveryTimeout  time.Duration
	CacheCapacity           int
	CacheTTL                time.Duration
	SearchFunction          string
	ContentColumn           string
	EmbeddingColumn         string
	EmbeddingsTable         string
}

type IngestConfig struct {
	BatchSize    int
	MaxWords     int
	MaxRetries   int
	SourceTables []string
	FailedLog    string
}

type MetricsConfig struct {
	Port string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root; a missing
	// file is fine, environment variables take over (Docker/K8s).
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	dimensions, _ := strconv.Atoi(getEnv("EMBEDDING_DIMENSIONS", "1536"))
	topK, _ := strconv.Atoi(getEnv("TOP_K", "3"))
	maxContextWords, _ := strconv.Atoi(getEnv("MAX_CONTEXT_WORDS", "1500"))
	maxQuestionLength, _ := strconv.Atoi(getEnv("MAX_QUESTION_LENGTH", "500"))
	requestTimeout, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "15"))
	failureThreshold, _ := strconv.Atoi(getEnv("CIRCUIT_FAILURE_THRESHOLD", "3"))
	recoverySeconds, _ := strconv.Atoi(getEnv("CIRCUIT_RECOVERY_SECONDS", "60"))
	cacheCapacity, _ := strconv.Atoi(getEnv("CACHE_CAPACITY", "512"))
	cacheTTLMinutes, _ := strconv.Atoi(getEnv("CACHE_TTL_MINUTES", "60"))
	batchSize, _ := strconv.Atoi(getEnv("BATCH_SIZE", "500"))
	maxWords, _ := strconv.Atoi(getEnv("MAX_TOKENS", "2048"))
	maxRetries, _ := strconv.Atoi(getEnv("MAX_RETRIES", "3"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "asistente_fincas"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "supersecretkey"),
			Expiration: time.Duration(jwtExp) * time.Minute,
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		RAG: RAGConfig{
			EmbeddingModel:          getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
			CompletionModel:         getEnv("COMPLETION_MODEL", "gpt-3.5-turbo"),
			EmbeddingDimensions:     dimensions,
			TopK:                    topK,
			MaxContextWords:         maxContextWords,
			MaxQuestionLength:       maxQuestionLength,
			RequestTimeout:          time.Duration(requestTimeout) * time.Second,
			CircuitFailureThreshold: failureThreshold,
			CircuitRecoveryTimeout:  time.Duration(recoverySeconds) * time.Second,
			CacheCapacity:           cacheCapacity,
			CacheTTL:                time.Duration(cacheTTLMinutes) * time.Minute,
			SearchFunction:          getEnv("SEARCH_FUNCTION", "vector_search"),
			ContentColumn:           getEnv("CONTENT_COLUMN", "contenido"),
			EmbeddingColumn:         getEnv("EMBEDDING_COLUMN", "embedding_vector"),
			EmbeddingsTable:         getEnv("TABLA_EMBEDDINGS", "documentos_embeddings"),
		},
		Ingest: IngestConfig{
			BatchSize:    batchSize,
			MaxWords:     maxWords,
			MaxRetries:   maxRetries,
			SourceTables: []string{"administraciones", "fincas", "usuarios", "incidencias"},
			FailedLog:    getEnv("FAILED_BATCHES_LOG", "failed_batches.log"),
		},
		Metrics: MetricsConfig{
			Port: getEnv("METRICS_PORT", "8010"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

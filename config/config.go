package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Minio    MinioConfig    `yaml:"minio"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Uploads  UploadConfig   `yaml:"uploads"`
	Admin    AdminConfig    `yaml:"admin"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Name         string `yaml:"name"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// DSN builds the Postgres connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type MinioConfig struct {
	Endpoint  string       `yaml:"endpoint"`
	AccessKey string       `yaml:"access_key"`
	SecretKey string       `yaml:"secret_key"`
	UseSSL    bool         `yaml:"use_ssl"`
	Buckets   BucketConfig `yaml:"buckets"`
}

// BucketConfig names one bucket per document context. Review and opportunity
// documents share the drp-documents bucket.
type BucketConfig struct {
	ContractDocuments string `yaml:"contract_documents"`
	DRPDocuments      string `yaml:"drp_documents"`
	PartnerDocuments  string `yaml:"partner_documents"`
}

// All returns every configured bucket name.
func (b *BucketConfig) All() []string {
	return []string{b.ContractDocuments, b.DRPDocuments, b.PartnerDocuments}
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type UploadConfig struct {
	MaxFileSizeMB         int      `yaml:"max_file_size_mb"`
	ContractMaxFileSizeMB int      `yaml:"contract_max_file_size_mb"`
	AllowedExtensions     []string `yaml:"allowed_extensions"`
}

// MaxBytes returns the default per-file upload limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return int64(u.MaxFileSizeMB) * 1024 * 1024
}

// ContractMaxBytes returns the per-file limit for contract documents.
func (u *UploadConfig) ContractMaxBytes() int64 {
	return int64(u.ContractMaxFileSizeMB) * 1024 * 1024
}

// ExtensionAllowed reports whether the file extension (with leading dot) is on
// the allow-list. Comparison is case-insensitive.
func (u *UploadConfig) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range u.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// AdminConfig seeds the initial admin account on an empty database.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func Load(path string) (*Config, error) {
	// Optional .env overlay for secrets kept out of the YAML file
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Minio.Buckets.ContractDocuments == "" {
		cfg.Minio.Buckets.ContractDocuments = "contract-documents"
	}
	if cfg.Minio.Buckets.DRPDocuments == "" {
		cfg.Minio.Buckets.DRPDocuments = "drp-documents"
	}
	if cfg.Minio.Buckets.PartnerDocuments == "" {
		cfg.Minio.Buckets.PartnerDocuments = "partner-documents"
	}
	if cfg.Uploads.MaxFileSizeMB == 0 {
		cfg.Uploads.MaxFileSizeMB = 10
	}
	if cfg.Uploads.ContractMaxFileSizeMB == 0 {
		cfg.Uploads.ContractMaxFileSizeMB = 20
	}
	if len(cfg.Uploads.AllowedExtensions) == 0 {
		cfg.Uploads.AllowedExtensions = []string{
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".txt",
		}
	}
	if cfg.Admin.Email == "" {
		cfg.Admin.Email = "admin@gs7crm.local"
	}

	return &cfg, nil
}

// applyEnvOverrides lets deployments override secrets without editing the
// config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.Minio.SecretKey = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
}

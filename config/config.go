package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type PostgreSQLConfig struct {
	DBHost     string
	DBName     string
	DBPort     string
	DBUsername string
	DBPassword string
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PaymentURL string
	ReturnURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

type TracingConfig struct {
	CollectorHost string
}

type Config struct {
	ServicePort      string
	MetricsPort      string
	Environment      string
	BaseURL          string
	PostgreSQLConfig PostgreSQLConfig
	KafkaConfig      KafkaConfig
	VNPayConfig      VNPayConfig
	CloudinaryConfig CloudinaryConfig
	SMTPConfig       SMTPConfig
	JWTSecret        string
	TracingConfig    TracingConfig
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if smtpPort == 0 {
		smtpPort = 587
	}

	brokerPartition, _ := strconv.Atoi(os.Getenv("BROKER_PARTITION"))

	conf := Config{
		ServicePort: os.Getenv("SERVICE_PORT"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		Environment: os.Getenv("ENVIRONMENT"),
		BaseURL:     os.Getenv("BASE_URL"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBName:     os.Getenv("DB_NAME"),
			DBPort:     os.Getenv("DB_PORT"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress:   os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:     os.Getenv("BROKER_TOPIC"),
			BrokerPartition: brokerPartition,
		},
		VNPayConfig: VNPayConfig{
			TmnCode:    os.Getenv("VNP_TMN_CODE"),
			HashSecret: os.Getenv("VNP_HASH_SECRET"),
			PaymentURL: os.Getenv("VNP_PAYMENT_URL"),
			ReturnURL:  os.Getenv("VNP_RETURN_URL"),
		},
		CloudinaryConfig: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    os.Getenv("CLOUDINARY_FOLDER"),
		},
		SMTPConfig: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Sender:   os.Getenv("SMTP_SENDER"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	// The signing secret has no default. With a placeholder secret every forged
	// callback would verify.
	if conf.VNPayConfig.HashSecret == "" {
		log.Fatal().Str("component", "CreateNewConfig").Msg("VNP_HASH_SECRET is not set")
	}

	return &conf
}

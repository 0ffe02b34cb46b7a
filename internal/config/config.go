package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Receipt   ReceiptConfig
	RabbitMQ  RabbitMQConfig
	Seed      SeedConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// PrinterTarget describes one physical printer.
type PrinterTarget struct {
	Type    string // usb, network or none
	Address string
	USBPath string
}

type PrinterConfig struct {
	Restaurant       PrinterTarget
	Kitchen          PrinterTarget
	DialTimeout      time.Duration
	WriteTimeout     time.Duration
	Paper            string
	Font             string
	KitchenAutoPrint bool
}

type ReceiptConfig struct {
	BusinessName    string
	Phone           string
	AddressLines    []string
	ThankYou        string
	KitchenLabel    string
	DisplayTimezone string
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// Enabled reports whether a broker is configured.
func (c *RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
	MenuFile      string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "kiki-pos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "kiki_pos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	viper.SetDefault("RESTAURANT_PRINTER_TYPE", "none")
	viper.SetDefault("RESTAURANT_PRINTER_IP", "")
	viper.SetDefault("RESTAURANT_PRINTER_USB_PATH", "")
	viper.SetDefault("KITCHEN_PRINTER_TYPE", "none")
	viper.SetDefault("KITCHEN_PRINTER_IP", "")
	viper.SetDefault("KITCHEN_PRINTER_USB_PATH", "")
	viper.SetDefault("PRINTER_DIAL_TIMEOUT_SECONDS", 5)
	viper.SetDefault("PRINTER_WRITE_TIMEOUT_SECONDS", 10)
	viper.SetDefault("RECEIPT_PAPER", "80mm")
	viper.SetDefault("RECEIPT_FONT", "A")
	viper.SetDefault("KITCHEN_AUTO_PRINT", false)

	viper.SetDefault("RECEIPT_BUSINESS_NAME", "KIKI BEACH ISLAND RESORT")
	viper.SetDefault("RECEIPT_PHONE", "+62 822-8923-0001")
	viper.SetDefault("RECEIPT_ADDRESS", "Pasir Gelam, Karas, Pulau Galang|Kota Batam, Kepulauan Riau 29486")
	viper.SetDefault("RECEIPT_THANK_YOU", "Terima kasih atas kunjungannya!")
	viper.SetDefault("RECEIPT_KITCHEN_LABEL", "DAPUR")
	viper.SetDefault("DISPLAY_TIMEZONE", "Asia/Jakarta")

	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("RABBITMQ_EXCHANGE", "orders_fanout")
	viper.SetDefault("RABBITMQ_KITCHEN_QUEUE", "kitchen_tickets")

	viper.SetDefault("MENU_SEED_FILE", "")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Restaurant: PrinterTarget{
				Type:    viper.GetString("RESTAURANT_PRINTER_TYPE"),
				Address: viper.GetString("RESTAURANT_PRINTER_IP"),
				USBPath: viper.GetString("RESTAURANT_PRINTER_USB_PATH"),
			},
			Kitchen: PrinterTarget{
				Type:    viper.GetString("KITCHEN_PRINTER_TYPE"),
				Address: viper.GetString("KITCHEN_PRINTER_IP"),
				USBPath: viper.GetString("KITCHEN_PRINTER_USB_PATH"),
			},
			DialTimeout:      time.Duration(viper.GetInt("PRINTER_DIAL_TIMEOUT_SECONDS")) * time.Second,
			WriteTimeout:     time.Duration(viper.GetInt("PRINTER_WRITE_TIMEOUT_SECONDS")) * time.Second,
			Paper:            viper.GetString("RECEIPT_PAPER"),
			Font:             viper.GetString("RECEIPT_FONT"),
			KitchenAutoPrint: viper.GetBool("KITCHEN_AUTO_PRINT"),
		},
		Receipt: ReceiptConfig{
			BusinessName:    viper.GetString("RECEIPT_BUSINESS_NAME"),
			Phone:           viper.GetString("RECEIPT_PHONE"),
			AddressLines:    splitLines(viper.GetString("RECEIPT_ADDRESS")),
			ThankYou:        viper.GetString("RECEIPT_THANK_YOU"),
			KitchenLabel:    viper.GetString("RECEIPT_KITCHEN_LABEL"),
			DisplayTimezone: viper.GetString("DISPLAY_TIMEZONE"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      viper.GetString("RABBITMQ_URL"),
			Exchange: viper.GetString("RABBITMQ_EXCHANGE"),
			Queue:    viper.GetString("RABBITMQ_KITCHEN_QUEUE"),
		},
		Seed: SeedConfig{
			AdminEmail:    viper.GetString("ADMIN_EMAIL"),
			AdminPassword: viper.GetString("ADMIN_PASSWORD"),
			AdminName:     viper.GetString("ADMIN_NAME"),
			MenuFile:      viper.GetString("MENU_SEED_FILE"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Location resolves the display timezone, falling back to a fixed UTC+7 zone
// when the tz database is unavailable.
func (c *ReceiptConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.DisplayTimezone); err == nil {
		return loc
	}
	log.Printf("Warning: unknown timezone %q, using UTC+7", c.DisplayTimezone)
	return time.FixedZone("WIB", 7*60*60)
}

// splitLines splits a "|" separated address into trimmed, non-empty lines.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "|") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

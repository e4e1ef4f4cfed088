package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, secrets)
// - default: Values common across all environments (rates policy, timeouts, windows)
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Pricing   PricingConfig
	Risk      RiskConfig
	Gateway   GatewayConfig
	Calendar  CalendarConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Europe/London"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Europe/London"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// Amounts are in the currency's minor unit, ratios in basis points.
type PricingConfig struct {
	WeekendDays         []string `envconfig:"PRICING_WEEKEND_DAYS" default:"fri,sat"`
	FeeKind             string   `envconfig:"PRICING_FEE_KIND" default:"fixed"`
	FeeAmount           int64    `envconfig:"PRICING_FEE_AMOUNT" default:"0"`
	FeeBasisPoints      int64    `envconfig:"PRICING_FEE_BASIS_POINTS" default:"0"`
	DepositBasisPoints  int64    `envconfig:"PRICING_DEPOSIT_BASIS_POINTS" default:"2500"`
	Currency            string   `envconfig:"PRICING_CURRENCY" default:"GBP"`
	SecurityDeposit     int64    `envconfig:"PRICING_SECURITY_DEPOSIT" default:"50000"`
	MinLeadDays         int      `envconfig:"PRICING_MIN_LEAD_DAYS" default:"2"`
	MaxAdvanceMonths    int      `envconfig:"PRICING_MAX_ADVANCE_MONTHS" default:"18"`
	BalanceDueDays      int      `envconfig:"PRICING_BALANCE_DUE_DAYS" default:"42"`
	MaxAvailabilityDays int      `envconfig:"PRICING_MAX_AVAILABILITY_DAYS" default:"731"`
}

type RiskConfig struct {
	MinElapsed          time.Duration `envconfig:"RISK_MIN_ELAPSED" default:"3s"`
	MaxElapsed          time.Duration `envconfig:"RISK_MAX_ELAPSED" default:"30m"`
	ChallengeWindow     time.Duration `envconfig:"RISK_CHALLENGE_WINDOW" default:"10s"`
	ChallengeSecret     string        `envconfig:"RISK_CHALLENGE_SECRET"`
	MinClicks           int           `envconfig:"RISK_MIN_CLICKS" default:"1"`
	MinKeystrokes       int           `envconfig:"RISK_MIN_KEYSTROKES" default:"1"`
	MinUserAgentLength  int           `envconfig:"RISK_MIN_USER_AGENT_LENGTH" default:"20"`
	BlockedIPs          []string      `envconfig:"RISK_BLOCKED_IPS"`
	BlockedEmails       []string      `envconfig:"RISK_BLOCKED_EMAILS"`
	DisposableDomains   []string      `envconfig:"RISK_DISPOSABLE_DOMAINS" default:"mailinator.com,tempmail.com,guerrillamail.com,10minutemail.com,yopmail.com,trashmail.com,maildrop.cc,throwaway.email"`
	RateLimit           int64         `envconfig:"RISK_RATE_LIMIT" default:"50"`
	RateWindow          time.Duration `envconfig:"RISK_RATE_WINDOW" default:"24h"`
	BlockTTL            time.Duration `envconfig:"RISK_BLOCK_TTL" default:"720h"`
	TrustForwardHeaders bool          `envconfig:"RISK_TRUST_FORWARD_HEADERS" default:"false"`
}

type GatewayConfig struct {
	BaseURL            string        `envconfig:"GATEWAY_BASE_URL" required:"true"`
	APIKey             string        `envconfig:"GATEWAY_API_KEY" required:"true"`
	WebhookSecret      string        `envconfig:"GATEWAY_WEBHOOK_SECRET" required:"true"`
	Timeout            time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"10s"`
	SignatureTolerance time.Duration `envconfig:"GATEWAY_SIGNATURE_TOLERANCE" default:"5m"`
	SuccessURL         string        `envconfig:"GATEWAY_SUCCESS_URL" default:"http://localhost:3000/booking/success"`
	CancelURL          string        `envconfig:"GATEWAY_CANCEL_URL" default:"http://localhost:3000/booking/cancelled"`
}

type CalendarConfig struct {
	FetchTimeout time.Duration `envconfig:"CALENDAR_FETCH_TIMEOUT" default:"5s"`
	CacheTTL     time.Duration `envconfig:"CALENDAR_CACHE_TTL" default:"5m"`
	UserAgent    string        `envconfig:"CALENDAR_USER_AGENT" default:"booking-engine/1.0 (calendar-sync)"`
	MaxBytes     int64         `envconfig:"CALENDAR_MAX_BYTES" default:"2097152"`
}

// Empty Addr selects the in-process stores.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Prefix   string `envconfig:"REDIS_PREFIX" default:"booking:"`
}

type SchedulerConfig struct {
	Enabled        bool          `envconfig:"SCHEDULER_ENABLED" default:"true"`
	BalanceSpec    string        `envconfig:"SCHEDULER_BALANCE_SPEC" default:"0 0 6 * * *"`
	SweepSpec      string        `envconfig:"SCHEDULER_SWEEP_SPEC" default:"0 */5 * * * *"`
	DepositHoldTTL time.Duration `envconfig:"SCHEDULER_DEPOSIT_HOLD_TTL" default:"24h"`
	BatchSize      int           `envconfig:"SCHEDULER_BATCH_SIZE" default:"100"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Weekdays whose nights are priced at the weekend rate.
func (c *PricingConfig) Weekend() ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(c.WeekendDays))
	for _, name := range c.WeekendDays {
		key := strings.ToLower(strings.TrimSpace(name))
		if len(key) > 3 {
			key = key[:3]
		}
		d, ok := weekdayNames[key]
		if !ok {
			return nil, fmt.Errorf("invalid PRICING_WEEKEND_DAYS entry %q", name)
		}
		days = append(days, d)
	}
	return days, nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Pricing: PricingConfig{
			WeekendDays:         []string{"fri", "sat"},
			FeeKind:             "fixed",
			DepositBasisPoints:  2500,
			Currency:            "GBP",
			SecurityDeposit:     50000,
			MinLeadDays:         2,
			MaxAdvanceMonths:    18,
			BalanceDueDays:      42,
			MaxAvailabilityDays: 731,
		},
		Risk: RiskConfig{
			MinElapsed:         3 * time.Second,
			MaxElapsed:         30 * time.Minute,
			ChallengeWindow:    10 * time.Second,
			MinClicks:          1,
			MinKeystrokes:      1,
			MinUserAgentLength: 20,
			DisposableDomains:  []string{"mailinator.com", "tempmail.com"},
			RateLimit:          50,
			RateWindow:         24 * time.Hour,
			BlockTTL:           time.Hour,
		},
		Gateway: GatewayConfig{
			BaseURL:            "http://localhost:12111",
			APIKey:             "test-key",
			WebhookSecret:      "whsec_test",
			Timeout:            2 * time.Second,
			SignatureTolerance: 5 * time.Minute,
			SuccessURL:         "http://localhost:3000/booking/success",
			CancelURL:          "http://localhost:3000/booking/cancelled",
		},
		Calendar: CalendarConfig{
			FetchTimeout: time.Second,
			CacheTTL:     time.Minute,
			UserAgent:    "booking-engine-test",
			MaxBytes:     1 << 20,
		},
		Scheduler: SchedulerConfig{
			Enabled:        false,
			BalanceSpec:    "0 0 6 * * *",
			SweepSpec:      "0 */5 * * * *",
			DepositHoldTTL: 24 * time.Hour,
			BatchSize:      100,
		},
	}
}

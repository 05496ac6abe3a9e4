package internal

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var cfg *Config

	BeforeEach(func() {
		cfg = &Config{
			App: AppConfig{Env: "test", FrontendBaseURL: "http://localhost:5173"},
			Server: ServerConfig{
				Port:              5001,
				AllowedOrigins:    "http://localhost:5173, *",
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
			},
			Database: DatabaseConfig{Source: "postgres://localhost/db", MaxOpenConns: 10, MaxIdleConns: 5},
			Security: SecurityConfig{
				JWTSecret:           "0123456789abcdef0123456789abcdef",
				AccessTokenDuration: time.Hour,
				ResetTokenTTL:       time.Hour,
				BCryptCost:          10,
			},
			Mail:          MailConfig{Driver: "log"},
			Observability: ObservabilityConfig{Logging: LoggingConfig{Level: "info", Format: "json"}},
		}
	})

	It("should accept a complete configuration", func() {
		Expect(cfg.Validate()).To(Succeed())
	})

	DescribeTable("should reject",
		func(mutate func(*Config), fragment string) {
			mutate(cfg)
			Expect(cfg.Validate()).To(MatchError(ContainSubstring(fragment)))
		},
		Entry("a relative frontend url", func(c *Config) { c.App.FrontendBaseURL = "/reset" }, "frontend_base_url"),
		Entry("an out of range port", func(c *Config) { c.Server.Port = 70000 }, "invalid port"),
		Entry("a read timeout below the header timeout", func(c *Config) { c.Server.ReadTimeout = time.Second }, "read_timeout"),
		Entry("a missing database source", func(c *Config) { c.Database.Source = "" }, "source is required"),
		Entry("more idle than open connections", func(c *Config) { c.Database.MaxIdleConns = 20 }, "max_idle_conns"),
		Entry("a short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }, "jwt_secret"),
		Entry("a day-long access token", func(c *Config) { c.Security.AccessTokenDuration = 24 * time.Hour }, "access_token_duration"),
		Entry("a weak bcrypt cost", func(c *Config) { c.Security.BCryptCost = 4 }, "bcrypt_cost"),
		Entry("smtp without a host", func(c *Config) { c.Mail = MailConfig{Driver: "smtp", Port: 587, From: "a@b.c"} }, "host is required"),
		Entry("an unknown mail driver", func(c *Config) { c.Mail.Driver = "pigeon" }, "unknown mail driver"),
		Entry("an unknown log level", func(c *Config) { c.Observability.Logging.Level = "trace" }, "invalid level"),
	)

	It("should report every broken section at once", func() {
		cfg.Database.Source = ""
		cfg.Security.JWTSecret = ""

		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("database config")))
		Expect(err).To(MatchError(ContainSubstring("security config")))
	})

	It("should fall back to defaults for unset or malformed variables", func() {
		GinkgoT().Setenv("HTTP_PORT", "not-a-number")
		GinkgoT().Setenv("RESET_TOKEN_TTL", "45m")
		GinkgoT().Setenv("HTTP_WRITE_TIMEOUT", "")

		env := LoadConfigFromEnv()
		Expect(env.Server.Port).To(Equal(5001))
		Expect(env.Security.ResetTokenTTL).To(Equal(45 * time.Minute))
		Expect(env.Server.WriteTimeout).To(Equal(15 * time.Second))
	})
})

package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/redirect-monitor/config"
)

var _ = Describe("Config", func() {
	var tempDir string

	writeConfig := func(content string) string {
		path := filepath.Join(tempDir, "config.yaml")
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
	})

	Describe("Load", func() {
		Context("with valid config file", func() {
			It("should load configuration successfully", func() {
				path := writeConfig(`
server:
  address: ":9090"
  environment: "prod"

logging:
  level: "debug"

monitor:
  interval_minutes: 60
  timeout: "3s"
  parallel: true
  max_concurrency: 2
  history_size: 5

api:
  validate_rps: 1
  validate_burst: 4
  trust_forwarded_for: true

alerting:
  webhook_url: "https://hooks.example.com/redirects"
  failure_threshold: 5
  reset_timeout: "1m"
`)

				cfg, err := config.Load(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(":9090"))
				Expect(cfg.Server.Environment).To(Equal("prod"))
				Expect(cfg.Logging.Level).To(Equal("debug"))
				Expect(cfg.Monitor.Interval()).To(Equal(time.Hour))
				Expect(cfg.Monitor.ProbeTimeout()).To(Equal(3 * time.Second))
				Expect(cfg.Monitor.Concurrency()).To(Equal(2))
				Expect(cfg.Monitor.HistorySize).To(Equal(5))
				Expect(cfg.API.ValidateRPS).To(Equal(1.0))
				Expect(cfg.API.ValidateBurst).To(Equal(4))
				Expect(cfg.API.TrustForwardedFor).To(BeTrue())
				Expect(cfg.Alerting.Enabled()).To(BeTrue())
				Expect(cfg.Alerting.FailureThreshold).To(Equal(5))
				Expect(cfg.Alerting.BreakerResetTimeout()).To(Equal(time.Minute))
				Expect(cfg.Alerting.DeliveryTimeout()).To(Equal(5 * time.Second))
			})
		})

		Context("with a partial config file", func() {
			It("should fill the rest from defaults", func() {
				path := writeConfig(`
monitor:
  interval_minutes: 30
`)

				cfg, err := config.Load(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(":8080"))
				Expect(cfg.Server.Environment).To(Equal("dev"))
				Expect(cfg.Logging.Level).To(Equal("info"))
				Expect(cfg.Monitor.Interval()).To(Equal(30 * time.Minute))
				Expect(cfg.Monitor.ProbeTimeout()).To(Equal(10 * time.Second))
				Expect(cfg.Monitor.Concurrency()).To(Equal(1))
				Expect(cfg.Monitor.HistorySize).To(Equal(20))
				Expect(cfg.API.ValidateRPS).To(Equal(0.1))
				Expect(cfg.API.ValidateBurst).To(Equal(2))
				Expect(cfg.API.TrustForwardedFor).To(BeFalse())
				Expect(cfg.Alerting.Enabled()).To(BeFalse())
			})
		})

		Context("with environment overrides", func() {
			It("should prefer the environment over the file", func() {
				path := writeConfig(`
monitor:
  interval_minutes: 30
`)
				GinkgoT().Setenv("MONITOR_INTERVAL_MINUTES", "15")
				GinkgoT().Setenv("SERVER_ENVIRONMENT", "staging")

				cfg, err := config.Load(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Monitor.IntervalMinutes).To(Equal(15))
				Expect(cfg.Server.Environment).To(Equal("staging"))
			})
		})

		Context("with an explicit file that does not exist", func() {
			It("should return an error", func() {
				_, err := config.Load(filepath.Join(tempDir, "missing.yaml"))
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with an invalid value", func() {
			It("should reject an unknown environment", func() {
				path := writeConfig(`
server:
  environment: "qa"
`)
				_, err := config.Load(path)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("environment"))
			})

			It("should reject a malformed probe timeout", func() {
				path := writeConfig(`
monitor:
  timeout: "soon"
`)
				_, err := config.Load(path)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("timeout"))
			})
		})
	})

	Describe("Validate", func() {
		var cfg *config.Config

		BeforeEach(func() {
			cfg = &config.Config{
				Server:  config.ServerConfig{Address: ":8080", Environment: config.EnvDev},
				Logging: config.LoggingConfig{Level: config.LogLevelInfo},
				Monitor: config.MonitorConfig{
					IntervalMinutes: 1440,
					Timeout:         "10s",
					MaxConcurrency:  4,
					HistorySize:     20,
				},
				API: config.APIConfig{ValidateRPS: 0.1, ValidateBurst: 2},
			}
		})

		It("should accept the defaults", func() {
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should accept a host in the address", func() {
			cfg.Server.Address = "localhost:8080"
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should reject an address without a port", func() {
			cfg.Server.Address = "localhost"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an unknown log level", func() {
			cfg.Logging.Level = "verbose"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a zero interval", func() {
			cfg.Monitor.IntervalMinutes = 0
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a negative probe timeout", func() {
			cfg.Monitor.Timeout = "-1s"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a zero rate limit", func() {
			cfg.API.ValidateRPS = 0
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should ignore alerting settings when no webhook is set", func() {
			cfg.Alerting.FailureThreshold = 0
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should reject a webhook with an unsupported scheme", func() {
			cfg.Alerting = config.AlertingConfig{
				WebhookURL:       "ftp://hooks.example.com",
				Timeout:          "5s",
				FailureThreshold: 3,
				ResetTimeout:     "5m",
			}
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should accept a complete webhook configuration", func() {
			cfg.Alerting = config.AlertingConfig{
				WebhookURL:       "https://hooks.example.com/redirects",
				Timeout:          "5s",
				FailureThreshold: 3,
				ResetTimeout:     "5m",
			}
			Expect(cfg.Validate()).To(Succeed())
		})
	})
})

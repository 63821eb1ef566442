package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingConfig holds the billing tunables. Values are read through the
// holder so a reload never mutates a config a request is already using.
type BillingConfig struct {
	MinInvoicedLicenses int64         `mapstructure:"minInvoicedLicenses"`
	InvoiceDaysUntilDue int64         `mapstructure:"invoiceDaysUntilDue"`
	AnnualPricePerSeat  int64         `mapstructure:"annualPricePerSeat"`
	MonthlyPricePerSeat int64         `mapstructure:"monthlyPricePerSeat"`
	SeatTokenSecret     string        `mapstructure:"seatTokenSecret"`
	SeatTokenMaxAge     time.Duration `mapstructure:"seatTokenMaxAge"`
	FreePlanName        string        `mapstructure:"freePlanName"`
	SupportContact      string        `mapstructure:"supportContact"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		MinInvoicedLicenses: 25,
		InvoiceDaysUntilDue: 30,
		AnnualPricePerSeat:  8000,
		MonthlyPricePerSeat: 800,
		SeatTokenMaxAge:     24 * time.Hour,
		FreePlanName:        "Free",
		SupportContact:      "support@seatwise.dev",
	}
}

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/seatwise/config")
	v.AddConfigPath("/etc/seatwise")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SEATWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.minInvoicedLicenses", defaults.MinInvoicedLicenses)
	v.SetDefault("billing.invoiceDaysUntilDue", defaults.InvoiceDaysUntilDue)
	v.SetDefault("billing.annualPricePerSeat", defaults.AnnualPricePerSeat)
	v.SetDefault("billing.monthlyPricePerSeat", defaults.MonthlyPricePerSeat)
	v.SetDefault("billing.seatTokenMaxAge", defaults.SeatTokenMaxAge)
	v.SetDefault("billing.freePlanName", defaults.FreePlanName)
	v.SetDefault("billing.supportContact", defaults.SupportContact)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-config] reload failed: %v", err)
			return
		}
		if err := validateBillingConfig(updated); err != nil {
			log.Printf("[billing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticBillingConfigHolder wraps a fixed config, used by tests.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

func validateBillingConfig(cfg BillingConfig) error {
	if cfg.MinInvoicedLicenses <= 0 {
		return errors.New("billing.minInvoicedLicenses must be positive")
	}
	if cfg.InvoiceDaysUntilDue <= 0 {
		return errors.New("billing.invoiceDaysUntilDue must be positive")
	}
	if cfg.AnnualPricePerSeat <= 0 || cfg.MonthlyPricePerSeat <= 0 {
		return errors.New("billing price points must be positive")
	}
	if cfg.SeatTokenMaxAge <= 0 {
		return errors.New("billing.seatTokenMaxAge must be positive")
	}
	return nil
}

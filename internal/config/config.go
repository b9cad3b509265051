package config

import (
	"flag"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type ServerCfg struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}
type MysqlCfg struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Database     string `mapstructure:"database"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Charset      string `mapstructure:"charset"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}
type RabbitCfg struct {
	URL string `mapstructure:"url"`
}
type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}
type SecurityCfg struct {
	HMACSecret    string `mapstructure:"hmacSecret"`
	InternalToken string `mapstructure:"internalToken"`
}

// Rates are declared as strings in yaml so no binary float ever sits on the
// money path; they are parsed into decimals once in Init.
type CommissionCfg struct {
	DefaultRatePct  string `mapstructure:"defaultRatePct"`
	OwnStoreRatePct string `mapstructure:"ownStoreRatePct"`
}
type TaxCfg struct {
	VatRatePct string `mapstructure:"vatRatePct"`
}
type FeeBucketCfg struct {
	Pct   string `mapstructure:"pct"`
	Fixed string `mapstructure:"fixed"`
}
type FeesCfg struct {
	PlatformFeePct string                  `mapstructure:"platformFeePct"`
	LocalCountry   string                  `mapstructure:"localCountry"`
	GccCountries   []string                `mapstructure:"gccCountries"`
	Gateway        map[string]FeeBucketCfg `mapstructure:"gateway"`
}
type SettlementCfg struct {
	MerchantHoldDays int   `mapstructure:"merchantHoldDays"`
	OwnStoreHoldDays int   `mapstructure:"ownStoreHoldDays"`
	PayoutDays       []int `mapstructure:"payoutDays"`
}
type RefundCfg struct {
	RecoveryMethod string `mapstructure:"recoveryMethod"`
}

type Root struct {
	Server     ServerCfg     `mapstructure:"server"`
	Mysql      MysqlCfg      `mapstructure:"mysql"`
	RabbitMQ   RabbitCfg     `mapstructure:"rabbitmq"`
	Redis      RedisCfg      `mapstructure:"redis"`
	Security   SecurityCfg   `mapstructure:"security"`
	Commission CommissionCfg `mapstructure:"commission"`
	Tax        TaxCfg        `mapstructure:"tax"`
	Fees       FeesCfg       `mapstructure:"fees"`
	Settlement SettlementCfg `mapstructure:"settlement"`
	Refund     RefundCfg     `mapstructure:"refund"`
}

var C Root

// GatewayBucket is one parsed gateway fee entry.
type GatewayBucket struct {
	Pct   decimal.Decimal
	Fixed decimal.Decimal
}

// RatesCfg holds config rates parsed into exact decimals at startup.
type RatesCfg struct {
	DefaultCommissionPct decimal.Decimal
	HasDefaultCommission bool
	OwnStorePct          decimal.Decimal
	VatPct               decimal.Decimal
	PlatformFeePct       decimal.Decimal
	Gateway              map[string]GatewayBucket
}

var Rates RatesCfg

func Init() {
	env := flag.String("env", "dev", "config env: dev|prod")
	flag.Parse()

	v := viper.New()
	v.SetConfigFile("config/config." + *env + ".yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config file failed: %v", err)
	}
	if err := v.Unmarshal(&C); err != nil {
		log.Fatalf("unmarshal config failed: %v", err)
	}

	applyDefaults()
	parseRates()
}

// applyDefaults backfills sane defaults after unmarshal.
func applyDefaults() {
	if strings.TrimSpace(C.Server.Port) == "" {
		C.Server.Port = "8080"
	}
	if C.Settlement.MerchantHoldDays <= 0 {
		C.Settlement.MerchantHoldDays = 15
	}
	if C.Settlement.OwnStoreHoldDays <= 0 {
		C.Settlement.OwnStoreHoldDays = 2
	}
	if len(C.Settlement.PayoutDays) == 0 {
		C.Settlement.PayoutDays = []int{1, 8, 15, 22}
	}
	if strings.TrimSpace(C.Tax.VatRatePct) == "" {
		C.Tax.VatRatePct = "5"
	}
	if strings.TrimSpace(C.Fees.PlatformFeePct) == "" {
		C.Fees.PlatformFeePct = "0.25"
	}
	if strings.TrimSpace(C.Refund.RecoveryMethod) == "" {
		C.Refund.RecoveryMethod = "deduct_next_settlement"
	}
	if len(C.Fees.GccCountries) == 0 {
		C.Fees.GccCountries = []string{"SA", "AE", "KW", "QA", "BH", "OM"}
	}
	if strings.TrimSpace(C.Fees.LocalCountry) == "" {
		C.Fees.LocalCountry = "SA"
	}
	if strings.TrimSpace(C.Commission.OwnStoreRatePct) == "" {
		C.Commission.OwnStoreRatePct = "0"
	}
}

func parseRates() {
	Rates.HasDefaultCommission = strings.TrimSpace(C.Commission.DefaultRatePct) != ""
	if Rates.HasDefaultCommission {
		Rates.DefaultCommissionPct = mustDecimal("commission.defaultRatePct", C.Commission.DefaultRatePct)
	}
	Rates.OwnStorePct = mustDecimal("commission.ownStoreRatePct", C.Commission.OwnStoreRatePct)
	Rates.VatPct = mustDecimal("tax.vatRatePct", C.Tax.VatRatePct)
	Rates.PlatformFeePct = mustDecimal("fees.platformFeePct", C.Fees.PlatformFeePct)

	Rates.Gateway = make(map[string]GatewayBucket, len(C.Fees.Gateway))
	for class, b := range C.Fees.Gateway {
		pct, fixed := "0", "0"
		if strings.TrimSpace(b.Pct) != "" {
			pct = b.Pct
		}
		if strings.TrimSpace(b.Fixed) != "" {
			fixed = b.Fixed
		}
		Rates.Gateway[class] = GatewayBucket{
			Pct:   mustDecimal("fees.gateway."+class+".pct", pct),
			Fixed: mustDecimal("fees.gateway."+class+".fixed", fixed),
		}
	}
}

func mustDecimal(key, s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		log.Fatalf("config %s: bad decimal %q: %v", key, s, err)
	}
	return d
}

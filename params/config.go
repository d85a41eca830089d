package params

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// SettlementContract is the GPv2 settlement contract, deployed at the same
// address on every supported chain.
var SettlementContract = common.HexToAddress("0x9008D19f58AAbD9eD0D60971565AA8510560ab41")

type Chain struct {
	ID uint64
	// Settlement is the verifying contract of the order signing domain.
	Settlement common.Address
}

type Service struct {
	DataDir  string
	LogFile  string
	LogLevel string
}

type Quote struct {
	// Validity is how long a stored quote stays redeemable. It bounds the
	// response expiration, not the order's validTo.
	Validity time.Duration
}

type Config struct {
	Chain   Chain
	Service Service
	Quote   Quote
}

func Default() Config {
	return Config{
		Chain: Chain{
			ID:         1,
			Settlement: SettlementContract,
		},
		Service: Service{
			DataDir:  "data",
			LogFile:  filepath.Join("data", "cowmodel.log"),
			LogLevel: "info",
		},
		Quote: Quote{
			Validity: 60 * time.Second,
		},
	}
}

// LoadFromEnv loads configuration from an env file and environment variables.
// An explicit envPath must exist; with envPath empty, ./.env is read if present.
// Priority: ENV > env file > defaults
func LoadFromEnv(envPath string) (Config, error) {
	cfg := Default()

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", envPath, err)
		}
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("CHAIN_ID"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("CHAIN_ID: %w", err)
		}
		cfg.Chain.ID = id
	}
	if v := os.Getenv("SETTLEMENT_CONTRACT"); v != "" {
		if !common.IsHexAddress(v) {
			return Config{}, fmt.Errorf("SETTLEMENT_CONTRACT: %q is not an address", v)
		}
		cfg.Chain.Settlement = common.HexToAddress(v)
	}

	cfg.Service.DataDir = getEnv("DATA_DIR", cfg.Service.DataDir)
	cfg.Service.LogFile = getEnv("LOG_FILE", filepath.Join(cfg.Service.DataDir, "cowmodel.log"))
	cfg.Service.LogLevel = getEnv("LOG_LEVEL", cfg.Service.LogLevel)

	if v := os.Getenv("QUOTE_VALIDITY_SEC"); v != "" {
		sec, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("QUOTE_VALIDITY_SEC: %w", err)
		}
		cfg.Quote.Validity = time.Duration(sec) * time.Second
	}

	return cfg, nil
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

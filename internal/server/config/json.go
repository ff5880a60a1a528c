package config

import (
	"encoding/json"
	"os"

	"github.com/mcamera/school-of-solana-season-8/internal/flagx"
	"github.com/mcamera/school-of-solana-season-8/internal/timex"
)

// JsonConfig mirrors Config for JSON decoding. Pointer fields distinguish
// "absent" from zero so a partial file only overrides what it names.
type JsonConfig struct {
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	MetricsAddr                 *string         `json:"metrics_addr"`
	StorageBackend              *string         `json:"storage_backend"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	LogFormat                   *string         `json:"log_format"`
	RentExemptMinimum           *uint64         `json:"rent_exempt_minimum"`
	MaxNameLength               *int            `json:"max_name_length"`
	RestrictCloseToOwner        *bool           `json:"restrict_close_to_owner"`
	AirdropLimit                *uint64         `json:"airdrop_limit"`
	AMQPURL                     *string         `json:"amqp_url"`
	EventsExchange              *string         `json:"events_exchange"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the file named by -c/-config. Without the
// flag nothing is loaded; an unreadable or malformed file panics.
func parseJson(config *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.MetricsAddr, c.MetricsAddr)
	setIf(&config.StorageBackend, c.StorageBackend)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setIf(&config.LogFormat, c.LogFormat)
	setIf(&config.RentExemptMinimum, c.RentExemptMinimum)
	setIf(&config.MaxNameLength, c.MaxNameLength)
	setIf(&config.RestrictCloseToOwner, c.RestrictCloseToOwner)
	setIf(&config.AirdropLimit, c.AirdropLimit)
	setIf(&config.AMQPURL, c.AMQPURL)
	setIf(&config.EventsExchange, c.EventsExchange)
	setIf(&config.S3RootUser, c.S3RootUser)
	setIf(&config.S3RootPassword, c.S3RootPassword)
	setIf(&config.S3Bucket, c.S3Bucket)
	setIf(&config.S3Region, c.S3Region)
	setIf(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

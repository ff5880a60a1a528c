package config

import (
	"flag"
	"os"
	"time"

	"github.com/mcamera/school-of-solana-season-8/internal/flagx"
)

var knownFlags = []string{
	"-a", "-m", "-k", "-d", "-s", "-t", "-l", "-r", "-n", "-o", "-f",
	"-q", "-x", "-u", "-p", "-b", "-g", "-e",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics/health HTTP bind address
//	-k string   storage backend: postgres | memory
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l string   log format: json | text | zap
//	-r uint     rent-exempt residue per project, lamports
//	-n int      maximum project name length
//	-o bool     restrict close_project to the owner
//	-f uint     airdrop limit per call, lamports
//	-q string   AMQP URL for lifecycle events
//	-x string   AMQP exchange for lifecycle events
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 archive bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to serve metrics")
	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend (postgres|memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")

	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format (json|text|zap)")
	fs.Uint64Var(&config.RentExemptMinimum, "r", config.RentExemptMinimum, "rent-exempt residue per project (lamports)")
	fs.IntVar(&config.MaxNameLength, "n", config.MaxNameLength, "maximum project name length")
	fs.BoolVar(&config.RestrictCloseToOwner, "o", config.RestrictCloseToOwner, "restrict close_project to the owner")
	fs.Uint64Var(&config.AirdropLimit, "f", config.AirdropLimit, "airdrop limit per call (lamports)")
	fs.StringVar(&config.AMQPURL, "q", config.AMQPURL, "AMQP URL")
	fs.StringVar(&config.EventsExchange, "x", config.EventsExchange, "AMQP events exchange")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 archive bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		}
	})
}

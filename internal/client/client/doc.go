// Package client is the wallet's connection to the funding server.
//
// GRPCClient wraps the generated-style api.FundingServiceClient: it attaches
// the access token to every call, signs in again with the unlocked key when
// the server reports an expired token, and maps gRPC status codes onto the
// sentinel errors in errors.go so callers can match them with errors.Is.
//
// InitDatabase opens the local SQLite wallet database and applies its goose
// migrations.
package client

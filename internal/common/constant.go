package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// LamportsPerSOL is the number of native-currency minor units in one whole unit.
const LamportsPerSOL uint64 = 1_000_000_000

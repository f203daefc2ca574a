// Package domain contains the core model for casg.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML parsing,
// net/http, crypto/tls or the filesystem. Infra adapters map into/from these types.
package domain

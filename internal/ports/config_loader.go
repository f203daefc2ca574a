package ports

import "github.com/stauffenbits/casg/internal/domain"

// ConfigLoader loads server configuration, applying defaults for missing fields.
type ConfigLoader interface {
	LoadConfig(path string) (domain.Config, error)
}

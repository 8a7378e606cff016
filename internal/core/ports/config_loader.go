package ports

import "github.com/farmstack/farmsync/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load walks up from cwd to find the configuration file and returns
	// the parsed, validated configuration.
	Load(cwd string) (*domain.Config, error)

	// DiscoverRoot walks up from cwd and returns the directory containing
	// the configuration file.
	DiscoverRoot(cwd string) (string, error)
}

// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/farmstack/farmsync/internal/adapters/config"
	_ "github.com/farmstack/farmsync/internal/adapters/logger"
	_ "github.com/farmstack/farmsync/internal/adapters/telemetry"
	// Register app nodes.
	_ "github.com/farmstack/farmsync/internal/app"
)

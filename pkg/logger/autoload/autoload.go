// Package autoload initializes the global logger from the LOG_* env
// prefix as a side effect of the import.
package autoload

import (
	configx "github.com/lyrebird-labs/concierge/pkg/config"
	logx "github.com/lyrebird-labs/concierge/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}

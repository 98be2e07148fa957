//go:build postgres || all_adapters

package postgres

import (
	"context"

	"go.uber.org/zap"

	"github.com/driftsql/driftsql/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.ProviderInfo{
			ID:          "postgres",
			DisplayName: "PostgreSQL",
			ParamPrefix: ParamPrefix,
		},
		Connect: func(ctx context.Context, config map[string]any, logger *zap.Logger) (datasource.Connection, error) {
			cfg, err := FromMap(config)
			if err != nil {
				return nil, err
			}
			return NewConnection(ctx, cfg, logger)
		},
	})
}

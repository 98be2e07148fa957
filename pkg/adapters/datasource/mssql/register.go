//go:build mssql || all_adapters

package mssql

import (
	"context"

	"go.uber.org/zap"

	"github.com/driftsql/driftsql/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.Registration{
		Info: datasource.ProviderInfo{
			ID:          "sqlserver",
			DisplayName: "Microsoft SQL Server",
			ParamPrefix: ParamPrefix,
		},
		Connect: func(ctx context.Context, config map[string]any, logger *zap.Logger) (datasource.Connection, error) {
			cfg, err := FromMap(config)
			if err != nil {
				return nil, err
			}
			return NewConnection(cfg, logger)
		},
	})
}

//go:build mssql || all_adapters

package mssql

import (
	"database/sql"
	"fmt"

	// Registers the "sqlserver" driver.
	_ "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"

	"github.com/driftsql/driftsql/pkg/adapters/datasource"
)

// ParamPrefix is the marker SQL Server named parameters use in SQL text.
const ParamPrefix = "@"

// NewConnection creates a SQL Server connection. go-mssqldb speaks
// database/sql, so the generic SQL adapter carries the cursor mechanics.
func NewConnection(cfg *Config, logger *zap.Logger) (*datasource.SQLConnection, error) {
	db, err := sql.Open("sqlserver", cfg.connString())
	if err != nil {
		return nil, fmt.Errorf("connect to sqlserver: %w", err)
	}
	return datasource.NewSQLConnection(db, ParamPrefix, logger), nil
}

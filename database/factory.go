// Package database selects and constructs vendor connections.
package database

import (
	"fmt"
	"slices"

	"github.com/dbforge/mysqlconn/config"
	"github.com/dbforge/mysqlconn/database/mysql"
	"github.com/dbforge/mysqlconn/database/types"
	"github.com/dbforge/mysqlconn/logger"
)

// NewConnection creates a connection for cfg. The concrete driver is selected
// by cfg.Vendor; an empty vendor defaults to MySQL. The returned connection
// has an allocated handle but no live session until Connect is called.
func NewConnection(cfg *config.DatabaseConfig, log logger.Logger) (types.Conn, error) {
	vendor := cfg.Vendor
	if vendor == "" {
		vendor = MySQL
	}

	switch vendor {
	case MySQL:
		return mysql.New(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database vendor: %s (supported: %v)", vendor, SupportedVendors())
	}
}

// ValidateVendor returns nil if vendor is supported.
func ValidateVendor(vendor string) error {
	if !slices.Contains(SupportedVendors(), vendor) {
		return fmt.Errorf("unsupported database vendor: %s (supported: %v)", vendor, SupportedVendors())
	}
	return nil
}

// SupportedVendors lists the vendors the factory can construct.
func SupportedVendors() []string {
	return []string{MySQL}
}

package database

import "github.com/dbforge/mysqlconn/database/types"

// Re-export vendor identifiers so callers of this package don't need to
// import types directly; the single source of truth lives in types.
const (
	MySQL = types.MySQL
)

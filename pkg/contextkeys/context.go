package contextkeys

// contextKey is unexported to avoid collisions with keys set by other packages.
type contextKey string

// DBContextKey is the key under which the request-scoped *gorm.DB handle
// (connection pool or an open transaction) is stored.
const DBContextKey = contextKey("db")

// Package database opens the snapshot database and inspects its schema.
//
// Connect wraps GORM with either the MySQL or the SQLite driver, chosen by
// Config.Driver. SQLite with Name ":memory:" is what the tests use.
//
// GetTableColumns and MissingColumns read the live table definition so
// callers can verify a schema before writing to it.
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	missing, err := database.MissingColumns(db, "listings", []string{"id", "steamid"})
package database

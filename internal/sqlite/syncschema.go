package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/random"
	"github.com/jmoiron/sqlx"
)

// migrateTo ensures that the db schema matches the target schema definition.
//
// We employ a simple declarative schema migration that:
//
//  1. Deletes deleted tables,
//  2. Creates new tables,
//  3. Migrates changed tables using 12-step schema migration https://www.sqlite.org/lang_altertable.html#otheralter,
//  4. Drops and recreates indexes and triggers whose definition changed.
//
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) error {
	var err error

	// Pin a connection because ATTACH and the foreign key pragma are connection state and neither may run inside the
	// transaction.
	var conn *sqlx.Conn
	if conn, err = db.ReadWrite.Connx(ctx); err != nil {
		return errors.Wrap(err, "get connection")
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to release connection",
				errors.SlogError(errors.Wrap(closeErr, "close connection")))
		}
	}()

	// 12-step schema migration starts here. See https://www.sqlite.org/lang_altertable.html#otheralter.

	// Step 1: Disable foreign key validation temporarily.
	if _, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return errors.Wrap(err, "disable foreign key validation")
	}
	// Step 12: Re-enable foreign key validation.
	defer func() {
		if _, fkErr := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil {
			fkErr = errors.Wrap(fkErr, "re-enable foreign key validation")
			db.logger.LogAttrs(ctx, slog.LevelError, "exit to avoid data corruption", errors.SlogError(fkErr))
			if killErr := syscall.Kill(syscall.Getpid(), syscall.SIGINT); killErr != nil {
				os.Exit(1)
			}
		}
	}()

	// Create schema against a temporary database so that we know what has changed.
	var (
		randomID     string
		dbNameLength uint = 20
	)
	if randomID, err = random.Letters(dbNameLength); err != nil {
		return errors.Wrap(err, "generate random ID")
	}
	schemaTargetDataSourceName := fmt.Sprintf("file:%s?mode=memory&cache=shared", randomID)
	var schemaTargetDatabase *sqlx.DB
	if schemaTargetDatabase, err = sqlx.Open("sqlite3", schemaTargetDataSourceName); err != nil {
		return errors.Wrap(err, "open schema target database")
	}
	defer func() {
		if closeErr := schemaTargetDatabase.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close schema target database",
				errors.SlogError(errors.Wrap(closeErr, "close schema target database")))
		}
	}()
	// Keep the in-memory database alive until it has been attached.
	schemaTargetDatabase.SetMaxIdleConns(1)
	if _, err = schemaTargetDatabase.ExecContext(ctx, schemaDefinition); err != nil {
		return errors.Wrap(err, "migrate schema target database")
	}

	// Attach the target so that steps 3-8 can compare both schemas.
	if _, err = conn.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", schemaTargetDataSourceName); err != nil {
		return errors.Wrap(err, "attach schema target database")
	}
	defer func() {
		if _, detachErr := conn.ExecContext(ctx, "DETACH DATABASE schemaTarget"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach schema target database",
				errors.SlogError(errors.Wrap(detachErr, "detach")))
		}
	}()

	// Step 2: Start transaction.
	var tx *sqlx.Tx
	if tx, err = conn.BeginTxx(ctx, nil); err != nil {
		return errors.Wrap(err, "start transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction",
				errors.SlogError(errors.Wrap(rollbackErr, "rollback")))
		}
	}()

	// Indexes and triggers of changed tables are dropped together with the table in step 6, so stale ones are
	// removed up front and everything missing is recreated in step 8.
	if err = db.dropChangedIndexesAndTriggers(ctx, tx); err != nil {
		return errors.Wrap(err, "drop changed indexes and triggers")
	}

	// Steps 3-7 migrate tables.
	if err = db.migrateTables(ctx, tx); err != nil {
		return errors.Wrap(err, "migrate tables")
	}

	// Step 8: Recreate indexes and triggers associated with table if needed.
	if err = db.createMissingIndexesAndTriggers(ctx, tx); err != nil {
		return errors.Wrap(err, "create missing indexes and triggers")
	}
	// Step 9: Views are not used.

	// Step 10: Check foreign key constraints.
	var violations []string
	if err = tx.SelectContext(ctx, &violations, `SELECT "table" FROM pragma_foreign_key_check`); err != nil {
		return errors.Wrap(err, "foreign key check")
	}
	if len(violations) > 0 {
		return errors.New("foreign key violations", slog.String("tables", strings.Join(violations, ",")))
	}

	// Step 11: Commit transaction from step 2.
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	// Step 12: is in defer above.

	return nil
}

// migrateTables ensures table schema is synchronized between databases.
func (db *Database) migrateTables(ctx context.Context, tx *sqlx.Tx) error {
	var err error

	// Drop deleted tables.
	var deletedTables []string
	if err = tx.SelectContext(ctx, &deletedTables, `SELECT current.name
FROM main.sqlite_schema AS current
LEFT JOIN schemaTarget.sqlite_schema AS target ON current.name = target.name AND current.type = target.type
WHERE current.type = 'table' AND target.type IS NULL AND current.name NOT LIKE 'sqlite_%'`); err != nil {
		return errors.Wrap(err, "query deleted tables")
	}
	for _, table := range deletedTables {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", table))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE "%s"`, table)); err != nil {
			return errors.Wrap(err, "drop table", slog.String("table", table))
		}
	}

	// Create new tables.
	var newTableSQLs []string
	if err = tx.SelectContext(ctx, &newTableSQLs, `SELECT target.sql
FROM schemaTarget.sqlite_schema AS target
LEFT JOIN main.sqlite_schema AS current ON current.name = target.name AND current.type = target.type
WHERE target.type = 'table' AND current.type IS NULL AND target.name NOT LIKE 'sqlite_%'`); err != nil {
		return errors.Wrap(err, "query new tables")
	}
	for _, newTableSQL := range newTableSQLs {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", newTableSQL))
		if _, err = tx.ExecContext(ctx, newTableSQL); err != nil {
			return errors.Wrap(err, "create table", slog.String("query", newTableSQL))
		}
	}

	// Identify tables with changed schema and continue the 12-step schema migration with them.
	var changedTables []changedTable
	if err = tx.SelectContext(ctx, &changedTables, `SELECT
    current.name AS name,
    current.sql AS current_sql,
    target.sql AS new_sql
FROM main.sqlite_schema AS current
JOIN schemaTarget.sqlite_schema AS target ON current.name = target.name AND current.type = target.type
WHERE current.type = 'table' AND current.name NOT LIKE 'sqlite_%' AND current.sql <> target.sql`); err != nil {
		return errors.Wrap(err, "query changed tables")
	}

	for _, table := range changedTables {
		if err = db.rebuildTable(ctx, tx, table); err != nil {
			return errors.Wrap(err, "rebuild table", slog.String("table", table.Name))
		}
	}
	return nil
}

type changedTable struct {
	Name       string `db:"name"`
	CurrentSQL string `db:"current_sql"`
	NewSQL     string `db:"new_sql"`
}

// rebuildTable runs steps 4-7 of the 12-step migration for one table.
func (db *Database) rebuildTable(ctx context.Context, tx *sqlx.Tx, table changedTable) error {
	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrating table",
		slog.String("table", table.Name),
		slog.String("current_sql", table.CurrentSQL),
		slog.String("new_sql", table.NewSQL))

	// Step 4: Create tables according to new schema on temporary names.
	tempName := table.Name + "_migration_temp"
	tempNameSQL := strings.Replace(table.NewSQL, table.Name, tempName, 1)
	if _, err := tx.ExecContext(ctx, tempNameSQL); err != nil {
		return errors.Wrap(err, "create new table to temporary name", slog.String("query", tempNameSQL))
	}

	// Step 5: Copy common columns between tables. Column names are quoted to handle SQLite keywords.
	var commonColumns []string
	if err := tx.SelectContext(ctx, &commonColumns, `SELECT '"' || target.name || '"'
FROM pragma_table_info(?) AS current
JOIN pragma_table_info(?, 'schemaTarget') AS target ON target.name = current.name`,
		table.Name, table.Name); err != nil {
		return errors.Wrap(err, "query common columns")
	}
	if len(commonColumns) > 0 {
		common := strings.Join(commonColumns, ", ")
		copySQL := fmt.Sprintf(`INSERT INTO "%s" (%s) SELECT %s FROM "%s"`, //nolint:gosec // names come from the schema.
			tempName, common, common, table.Name)
		db.logger.LogAttrs(ctx, slog.LevelInfo, "copying data", slog.String("query", copySQL))
		if _, err := tx.ExecContext(ctx, copySQL); err != nil {
			return errors.Wrap(err, "copy data")
		}
	}

	// Step 6: Drop the old table.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE "%s"`, table.Name)); err != nil {
		return errors.Wrap(err, "drop old table")
	}

	// Step 7: Rename new table to old table's name.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE "%s" RENAME TO "%s"`, tempName, table.Name)); err != nil {
		return errors.Wrap(err, "rename new table")
	}
	return nil
}

// dropChangedIndexesAndTriggers drops indexes and triggers that are missing from or differ in the target schema.
func (db *Database) dropChangedIndexesAndTriggers(ctx context.Context, tx *sqlx.Tx) error {
	var objects []schemaObject
	if err := tx.SelectContext(ctx, &objects, `SELECT current.type AS type, current.name AS name
FROM main.sqlite_schema AS current
LEFT JOIN schemaTarget.sqlite_schema AS target ON current.name = target.name AND current.type = target.type
WHERE current.type IN ('index', 'trigger') AND current.sql IS NOT NULL
  AND (target.sql IS NULL OR current.sql <> target.sql)`); err != nil {
		return errors.Wrap(err, "query changed indexes and triggers")
	}
	for _, object := range objects {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping "+object.Type, slog.String("name", object.Name))
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP %s "%s"`, strings.ToUpper(object.Type), object.Name)); err != nil {
			return errors.Wrap(err, "drop", slog.String("type", object.Type), slog.String("name", object.Name))
		}
	}
	return nil
}

// createMissingIndexesAndTriggers creates the indexes and triggers of the target schema missing from the database.
func (db *Database) createMissingIndexesAndTriggers(ctx context.Context, tx *sqlx.Tx) error {
	var objects []schemaObject
	if err := tx.SelectContext(ctx, &objects, `SELECT target.type AS type, target.name AS name, target.sql AS sql
FROM schemaTarget.sqlite_schema AS target
LEFT JOIN main.sqlite_schema AS current ON current.name = target.name AND current.type = target.type
WHERE target.type IN ('index', 'trigger') AND target.sql IS NOT NULL AND current.type IS NULL`); err != nil {
		return errors.Wrap(err, "query missing indexes and triggers")
	}
	for _, object := range objects {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating "+object.Type, slog.String("query", object.SQL))
		if _, err := tx.ExecContext(ctx, object.SQL); err != nil {
			return errors.Wrap(err, "create", slog.String("type", object.Type), slog.String("name", object.Name))
		}
	}
	return nil
}

type schemaObject struct {
	Type string `db:"type"`
	Name string `db:"name"`
	SQL  string `db:"sql"`
}

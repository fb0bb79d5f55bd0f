package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/m04kA/SMC-DayBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-DayBooking/pkg/sqlbuilder"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Apply выполняет все скрипты диалекта по порядку имени файла.
// Скрипты идемпотентны, поэтому их можно запускать при каждом старте.
func Apply(ctx context.Context, db dbmetrics.DBExecutor, dialect sqlbuilder.Dialect, log Logger) error {
	names, err := fs.Glob(files, string(dialect)+"/*.sql")
	if err != nil {
		return fmt.Errorf("migrations: list %s scripts: %w", dialect, err)
	}
	if len(names) == 0 {
		return fmt.Errorf("migrations: no scripts for dialect %s", dialect)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrations: read %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("migrations: apply %s: %w", name, err)
		}
		log.Info("Migration applied: %s", name)
	}

	return nil
}

package sqlbuilder

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// Dialect диалект SQL хранилища
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect разбирает имя драйвера из конфигурации
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case Postgres:
		return Postgres, nil
	case SQLite:
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", s)
	}
}

// DriverName имя драйвера database/sql для диалекта
func (d Dialect) DriverName() string {
	return string(d)
}

// New возвращает squirrel builder с плейсхолдерами под диалект:
// $1, $2 ... для Postgres и ? для SQLite
func New(d Dialect) squirrel.StatementBuilderType {
	if d == Postgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

package alerting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Level tags alert severity. Ordering for rendering is critical, warning,
// info.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Category routes an alert to its domain.
type Category string

const (
	CategoryVolatilidade Category = "volatilidade"
	CategoryClima        Category = "clima"
	CategoryMercado      Category = "mercado"
)

// Alert is a single structured finding. ID is derived from the category and
// the period the alert concerns, so evaluating unchanged data always yields
// the same ID and callers can de-duplicate across runs.
type Alert struct {
	ID          string
	Title       string
	Description string
	Level       Level
	Category    Category
	Date        time.Time
}

// idNamespace seeds the deterministic alert IDs.
var idNamespace = uuid.MustParse("9d82f1a4-56cb-4c4e-8a47-0cf31e9d7b21")

func alertID(category Category, period string) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s|%s", category, period))).String()
}

func levelRank(l Level) int {
	switch l {
	case LevelCritical:
		return 0
	case LevelWarning:
		return 1
	default:
		return 2
	}
}

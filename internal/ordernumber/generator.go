// Package ordernumber выдаёт номера заказов.
package ordernumber

import (
	"strings"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/ordersvc/internal/domain"
)

// DefaultPrefix используется, если префикс не задан.
const DefaultPrefix = "ORD"

// Generator строит номер вида PREFIX-<32 hex> на основе UUIDv4.
type Generator struct {
	prefix string
}

// NewGenerator создаёт генератор с заданным префиксом.
func NewGenerator(prefix string) *Generator {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Generator{prefix: prefix}
}

// NewOrderNumber возвращает новый уникальный номер.
func (g *Generator) NewOrderNumber() string {
	id := uuid.New()
	return g.prefix + "-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
}

var _ domain.OrderNumberGenerator = (*Generator)(nil)

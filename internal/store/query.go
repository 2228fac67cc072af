package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByCreatedAt = "created_at"
	orderByAmount    = "amount"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByCreatedAt: "created_at DESC",
	orderByAmount:    "amount DESC",
}

const defaultOrderBy = "created_at DESC"

const baseEstimatesSelect = `SELECT id, item_name, condition, COALESCE(category, ''),
	amount, min_price, max_price, confidence, source, created_at
FROM estimates`

const countEstimatesSelect = "SELECT COUNT(*) FROM estimates"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for an estimate
// history query. It returns two SQL strings (one for the data query, one for
// the count query) and the positional parameters.
func (q *EstimateQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.Source != nil {
		conditions = append(conditions, fmt.Sprintf("source = $%d", paramIdx))
		args = append(args, *q.Source)
		paramIdx++
	}

	if q.Confidence != nil {
		conditions = append(conditions, fmt.Sprintf("confidence = $%d", paramIdx))
		args = append(args, *q.Confidence)
		paramIdx++
	}

	if q.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", paramIdx))
		args = append(args, *q.Category)
		paramIdx++
	}

	if q.Since != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", paramIdx))
		args = append(args, *q.Since)
		paramIdx++
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	// Order by
	orderClause := defaultOrderBy
	if q.OrderBy != "" {
		if col, ok := validOrderBy[q.OrderBy]; ok {
			orderClause = col
		}
	}

	// Limit
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseEstimatesSelect, whereClause, orderClause, limit, offset,
	)

	countSQL = countEstimatesSelect + whereClause

	return dataSQL, countSQL, args
}

package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// eBay token queries. The table holds at most one row.
const (
	queryGetEbayToken = `
		SELECT access_token, expires_at
		FROM ebay_tokens
		WHERE id = 1`

	querySetEbayToken = `
		INSERT INTO ebay_tokens (id, access_token, expires_at, updated_at)
		VALUES (1, @access_token, @expires_at, now())
		ON CONFLICT (id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()`
)

// Market snapshot queries.
const (
	queryUpsertSnapshot = `
		INSERT INTO market_prices (
			category, min_price, max_price, avg_price, median_price,
			sample_count, updated_at
		) VALUES (
			@category, @min_price, @max_price, @avg_price, @median_price,
			@sample_count, now()
		)
		ON CONFLICT (category) DO UPDATE SET
			min_price = EXCLUDED.min_price,
			max_price = EXCLUDED.max_price,
			avg_price = EXCLUDED.avg_price,
			median_price = EXCLUDED.median_price,
			sample_count = EXCLUDED.sample_count,
			updated_at = now()
		RETURNING updated_at`

	queryGetSnapshot = `
		SELECT category, min_price, max_price, avg_price, median_price,
			sample_count, updated_at
		FROM market_prices
		WHERE category = $1`

	queryListSnapshots = `
		SELECT category, min_price, max_price, avg_price, median_price,
			sample_count, updated_at
		FROM market_prices
		ORDER BY category`
)

// Estimate history queries.
const queryInsertEstimate = `
	INSERT INTO estimates (
		id, item_name, condition, category,
		amount, min_price, max_price, confidence, source, created_at
	) VALUES (
		@id, @item_name, @condition, @category,
		@amount, @min_price, @max_price, @confidence, @source, now()
	)
	RETURNING created_at`

// journal/schema.go
package journal

// Prices and quantities are decimal strings so they round-trip exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL CHECK (direction IN ('long', 'short')),
	entry_price TEXT NOT NULL,
	exit_price TEXT,
	quantity TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	closed_at DATETIME,
	tags TEXT NOT NULL DEFAULT '[]',
	emotion TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_trades_created ON trades(created_at);
CREATE INDEX IF NOT EXISTS idx_trades_closed ON trades(closed_at);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
`

package storage

import "tradeRouter/internal/model"

// Storage defines a sink for computed quotes.
type Storage interface {
	PutQuoteBatch(quotes []model.QuoteRecord) error
}

package storage

import "go.uber.org/zap"

// LoggedObserver returns a ChangeFunc that logs each slot change at debug
// level with index, amount, and item id ("-" for an emptied slot).
//
// Precondition: logger must be non-nil.
func LoggedObserver(logger *zap.Logger) ChangeFunc {
	return func(c Change) {
		id := "-"
		if c.Item != nil {
			id = c.Item.ItemID()
		}
		logger.Debug("slot changed",
			zap.Int("index", c.Index),
			zap.Int("amount", c.Amount),
			zap.String("item", id),
		)
	}
}

package types

import "time"

// TradeExecution is the result shape every broker call resolves to.
// Brokers fail closed: on any internal fault they return Success=false
// with Error set instead of propagating a fault across the capability
// boundary.
type TradeExecution struct {
	Success          bool      `json:"success"`
	Position         *Position `json:"position,omitempty"`
	Error            string    `json:"error,omitempty"`
	OrderID          string    `json:"order_id,omitempty"`
	ExecutedPrice    float64   `json:"executed_price,omitempty"`
	ExecutedQuantity float64   `json:"executed_quantity,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// FailedExecution builds the failure shape with the given reason.
func FailedExecution(reason string) *TradeExecution {
	return &TradeExecution{
		Success:   false,
		Error:     reason,
		Timestamp: time.Now(),
	}
}

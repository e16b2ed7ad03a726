// Package model defines the core domain types shared across the application.
package model

// Transaction represents a single payment record from the banksim dataset.
type Transaction struct {
	Customer string // Anonymized customer ID
	Age      string // Age group code "0".."6", or "U" for unknown
	Gender   string // Gender code (e.g. "M", "F", "E", "U")
	Merchant string // Anonymized merchant ID
	Category string // Purchase category (e.g. "es_travel")
	Step     int    // Simulation day index, 0..180
	Amount   float64
	Fraud    bool
}

// Label returns the target value used for training: 1 for fraud, 0 otherwise.
func (t *Transaction) Label() float64 {
	if t.Fraud {
		return 1
	}
	return 0
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type RatesState string

const (
	RatesPending RatesState = "pending"
	RatesReady   RatesState = "ready"
)

type Side string

const (
	SideFrom Side = "from"
	SideTo   Side = "to"
)

// ConversionSession is the whole state of one converter screen. Operations
// take a session and return the updated copy.
type ConversionSession struct {
	ID         uuid.UUID
	From       string
	To         string
	Base       string
	Rates      RateTable
	State      RatesState
	RequestID  uuid.UUID
	LastResult *Conversion
	ExpiresAt  time.Time
}

type Conversion struct {
	FromCode string
	ToCode   string
	Amount   float64
	Result   float64
	Rate     float64
}

type SessionInfo struct {
	SessionID string
}

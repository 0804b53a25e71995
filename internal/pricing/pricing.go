package pricing

import (
	"math"

	"inkwell/backend/internal/domain"
)

// DefaultDepositFraction is the share of the total collected up front.
const DefaultDepositFraction = 0.30

// Quote is the derived price for a booking. Cents everywhere; rounding is
// half-up and deterministic so a quote can be reproduced for audit.
type Quote struct {
	TotalPriceCents int64 `json:"total_price_cents"`
	DepositCents    int64 `json:"deposit_cents"`
}

// Pricer derives a quote for a service booked at an actual duration, which
// may differ from the service's nominal duration.
type Pricer interface {
	Quote(svc domain.Service, actualMinutes int) Quote
}

// HourlyPricer scales the service's base price linearly by duration: the
// hourly rate is basePriceCents over nominal hours, applied to the actual
// duration. When actualMinutes equals the nominal duration the total is the
// base price exactly.
type HourlyPricer struct {
	DepositFraction float64
}

func (p HourlyPricer) Quote(svc domain.Service, actualMinutes int) Quote {
	if actualMinutes <= 0 || svc.NominalDurationMinutes <= 0 {
		actualMinutes = svc.NominalDurationMinutes
	}

	var total int64
	if actualMinutes == svc.NominalDurationMinutes {
		total = svc.BasePriceCents
	} else {
		total = roundHalfUp(float64(svc.BasePriceCents) * float64(actualMinutes) / float64(svc.NominalDurationMinutes))
	}
	return Quote{
		TotalPriceCents: total,
		DepositCents:    roundHalfUp(float64(total) * p.DepositFraction),
	}
}

// FlatPricer charges the base price regardless of scheduled duration, for
// categories priced per piece rather than per hour.
type FlatPricer struct {
	DepositFraction float64
}

func (p FlatPricer) Quote(svc domain.Service, actualMinutes int) Quote {
	return Quote{
		TotalPriceCents: svc.BasePriceCents,
		DepositCents:    roundHalfUp(float64(svc.BasePriceCents) * p.DepositFraction),
	}
}

// Engine routes quoting by service category so flat-fee categories can
// bypass the hourly formula. Unregistered categories use the default pricer.
type Engine struct {
	byCategory map[string]Pricer
	fallback   Pricer
}

func NewEngine(depositFraction float64) *Engine {
	if depositFraction <= 0 || depositFraction >= 1 {
		depositFraction = DefaultDepositFraction
	}
	return &Engine{
		byCategory: make(map[string]Pricer),
		fallback:   HourlyPricer{DepositFraction: depositFraction},
	}
}

// Register routes category through p instead of the default hourly pricer.
func (e *Engine) Register(category string, p Pricer) {
	e.byCategory[category] = p
}

func (e *Engine) Price(svc domain.Service, actualMinutes int) Quote {
	if p, ok := e.byCategory[svc.Category]; ok {
		return p.Quote(svc, actualMinutes)
	}
	return e.fallback.Quote(svc, actualMinutes)
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

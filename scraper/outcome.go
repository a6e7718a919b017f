package scraper

// Status classifies the result of a single extraction attempt.
type Status int

const (
	// StatusFound means a usable price was extracted.
	StatusFound Status = iota
	// StatusNotFound means the input held no recognizable price. This is a
	// normal outcome, not a failure.
	StatusNotFound
	// StatusFailed means the attempt broke down (fetch error, malformed
	// page). Callers treat it the same as NotFound but the reason is kept
	// for logging.
	StatusFailed
)

// Outcome is the tagged result of one price extraction step.
type Outcome struct {
	Status Status
	Price  float64
	Reason string
}

// Found builds an Outcome carrying an extracted price.
func Found(price float64) Outcome {
	return Outcome{Status: StatusFound, Price: price}
}

// NotFound builds the no-price Outcome.
func NotFound() Outcome {
	return Outcome{Status: StatusNotFound}
}

// Failed builds an Outcome for a broken attempt.
func Failed(reason string) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason}
}

// IsFound returns true if the outcome carries a price.
func (o Outcome) IsFound() bool {
	return o.Status == StatusFound
}

package payload

// Estimator converts text to a token-equivalent unit count. Implementations
// must be pure and locally computed: budgeting never calls the generation
// backend. The default is a fixed characters-per-unit ratio; a real tokenizer
// can be swapped in later without touching truncation policy.
type Estimator interface {
	Units(text string) int
}

// CharsPerUnit estimates units as byte length divided by a fixed ratio,
// approximating typical model tokenization.
type CharsPerUnit struct {
	Chars int
}

// Units returns len(text)/Chars, rounding down.
func (c CharsPerUnit) Units(text string) int {
	chars := c.Chars
	if chars <= 0 {
		chars = 4
	}
	return len(text) / chars
}

// DefaultEstimator is the 4-characters-per-unit heuristic.
var DefaultEstimator Estimator = CharsPerUnit{Chars: 4}

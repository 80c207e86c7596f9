package grading

// Q is the minimal view of a question needed for grading.
type Q struct {
	ID    string
	Type  string
	Marks float64
	// Key is the stored correct answer: a string for single-answer types,
	// a []string (or JSON []interface{}) for multi-answer questions.
	Key interface{}
}

// Response is one submitted answer, matched to a question by ID.
type Response struct {
	QuestionID string
	Value      interface{}
}

// Outcome is the result of grading one full submission.
type Outcome struct {
	Score  float64
	Passed bool
}

// Strategy decides whether a single response satisfies a question's key.
// Strategies never error: a malformed or mistyped response is simply wrong.
type Strategy interface {
	Correct(key, response interface{}) bool
}

// Engine routes by question type to the matching Strategy. It is pure:
// no persistence, no I/O.
type Engine struct {
	strategies map[string]Strategy
}

// NewEngine installs the built-in strategies.
//
// MAQ is graded as set equality of the selected option values: all correct
// options selected and nothing else, no partial credit. Unknown question
// types have no strategy and contribute zero.
func NewEngine() *Engine {
	return &Engine{
		strategies: map[string]Strategy{
			"MCQ":         exactStrategy{},
			"TrueFalse":   exactStrategy{},
			"Blank":       textStrategy{},
			"ShortAnswer": textStrategy{},
			"MAQ":         setStrategy{},
		},
	}
}

// Grade scores a submission against the question snapshot the caller read at
// submit time. Questions are iterated in their canonical order; responses are
// resolved by question ID, so the submitted order never matters. A question
// with no matching response contributes zero.
func (e *Engine) Grade(questions []Q, responses []Response, cutoff float64) Outcome {
	byQuestion := make(map[string]interface{}, len(responses))
	for _, r := range responses {
		if r.QuestionID == "" {
			continue
		}
		if _, ok := byQuestion[r.QuestionID]; ok {
			continue // first response for a question wins
		}
		byQuestion[r.QuestionID] = r.Value
	}

	score := 0.0
	for _, q := range questions {
		resp, answered := byQuestion[q.ID]
		if !answered {
			continue
		}
		s, ok := e.strategies[q.Type]
		if !ok {
			continue
		}
		if s.Correct(q.Key, resp) && q.Marks > 0 {
			score += q.Marks
		}
	}
	return Outcome{Score: score, Passed: score >= cutoff}
}

// exactStrategy: value-for-value equality of JSON scalars, no normalization.
type exactStrategy struct{}

func (exactStrategy) Correct(key, response interface{}) bool {
	switch k := key.(type) {
	case string:
		r, ok := response.(string)
		return ok && k == r
	case bool:
		r, ok := response.(bool)
		return ok && k == r
	case float64:
		r, ok := response.(float64)
		return ok && k == r
	default:
		return false
	}
}

// textStrategy: case-insensitive equality ignoring leading/trailing space.
type textStrategy struct{}

func (textStrategy) Correct(key, response interface{}) bool {
	k, ok := key.(string)
	if !ok {
		return false
	}
	r, ok := response.(string)
	if !ok {
		return false
	}
	return normalize(k) == normalize(r)
}

// setStrategy: order-insensitive equality of option sets.
type setStrategy struct{}

func (setStrategy) Correct(key, response interface{}) bool {
	k, ok := toStringSlice(key)
	if !ok || len(k) == 0 {
		return false
	}
	r, ok := toStringSlice(response)
	if !ok {
		return false
	}
	return setEqual(toSet(k), toSet(r))
}

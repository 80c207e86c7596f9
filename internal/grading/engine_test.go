package grading

import "testing"

func twoMCQ() []Q {
	return []Q{
		{ID: "q1", Type: "MCQ", Marks: 3, Key: "A"},
		{ID: "q2", Type: "MCQ", Marks: 3, Key: "B"},
	}
}

func TestGrade_PartialThenFull(t *testing.T) {
	e := NewEngine()
	qs := twoMCQ()

	out := e.Grade(qs, []Response{
		{QuestionID: "q1", Value: "A"},
		{QuestionID: "q2", Value: "X"},
	}, 5)
	if out.Score != 3 || out.Passed {
		t.Fatalf("first submission: got score=%v passed=%v, want 3/false", out.Score, out.Passed)
	}

	out = e.Grade(qs, []Response{
		{QuestionID: "q1", Value: "A"},
		{QuestionID: "q2", Value: "B"},
	}, 5)
	if out.Score != 6 || !out.Passed {
		t.Fatalf("second submission: got score=%v passed=%v, want 6/true", out.Score, out.Passed)
	}
}

func TestGrade_CutoffBoundaryPasses(t *testing.T) {
	e := NewEngine()
	qs := []Q{{ID: "q1", Type: "MCQ", Marks: 5, Key: "A"}}
	out := e.Grade(qs, []Response{{QuestionID: "q1", Value: "A"}}, 5)
	if !out.Passed {
		t.Fatalf("score == cutoff must pass, got passed=%v score=%v", out.Passed, out.Score)
	}
}

func TestGrade_OrderIndependent(t *testing.T) {
	e := NewEngine()
	qs := twoMCQ()
	fwd := []Response{{QuestionID: "q1", Value: "A"}, {QuestionID: "q2", Value: "B"}}
	rev := []Response{{QuestionID: "q2", Value: "B"}, {QuestionID: "q1", Value: "A"}}
	if a, b := e.Grade(qs, fwd, 5), e.Grade(qs, rev, 5); a != b {
		t.Fatalf("permuting answers changed the outcome: %+v vs %+v", a, b)
	}
}

func TestGrade_UnansweredContributesZero(t *testing.T) {
	e := NewEngine()
	qs := twoMCQ()
	out := e.Grade(qs, []Response{{QuestionID: "q1", Value: "A"}}, 10)
	if out.Score != 3 {
		t.Fatalf("unanswered question must contribute zero, got score=%v", out.Score)
	}
	out = e.Grade(qs, nil, 0)
	if out.Score != 0 || !out.Passed {
		t.Fatalf("empty submission with cutoff 0: got %+v", out)
	}
}

func TestGrade_TextAnswersNormalized(t *testing.T) {
	e := NewEngine()
	qs := []Q{{ID: "q1", Type: "ShortAnswer", Marks: 1, Key: "Paris"}}
	out := e.Grade(qs, []Response{{QuestionID: "q1", Value: " paris "}}, 1)
	if out.Score != 1 || !out.Passed {
		t.Fatalf("case/whitespace-insensitive match failed: %+v", out)
	}
	// Interior whitespace stays significant.
	out = e.Grade(qs, []Response{{QuestionID: "q1", Value: "pa ris"}}, 1)
	if out.Score != 0 {
		t.Fatalf("interior whitespace must not be ignored: %+v", out)
	}
}

func TestGrade_TrueFalseBooleanKeys(t *testing.T) {
	e := NewEngine()
	qs := []Q{{ID: "q1", Type: "TrueFalse", Marks: 1, Key: true}}
	if out := e.Grade(qs, []Response{{QuestionID: "q1", Value: true}}, 1); out.Score != 1 {
		t.Fatalf("boolean key must match boolean response, got score=%v", out.Score)
	}
	if out := e.Grade(qs, []Response{{QuestionID: "q1", Value: "true"}}, 1); out.Score != 0 {
		t.Fatalf("no coercion between bool and string, got score=%v", out.Score)
	}
}

func TestGrade_ExactTypesNotNormalized(t *testing.T) {
	e := NewEngine()
	qs := []Q{{ID: "q1", Type: "MCQ", Marks: 1, Key: "A"}}
	out := e.Grade(qs, []Response{{QuestionID: "q1", Value: " a "}}, 1)
	if out.Score != 0 {
		t.Fatalf("MCQ must compare value-for-value, got score=%v", out.Score)
	}
}

func TestGrade_MAQSetEquality(t *testing.T) {
	e := NewEngine()
	qs := []Q{{ID: "q1", Type: "MAQ", Marks: 2, Key: []string{"A", "C"}}}

	cases := []struct {
		name  string
		value interface{}
		want  float64
	}{
		{"exact set", []string{"A", "C"}, 2},
		{"order-insensitive", []string{"C", "A"}, 2},
		{"json-decoded array", []interface{}{"C", "A"}, 2},
		{"subset gets nothing", []string{"A"}, 0},
		{"extra option gets nothing", []string{"A", "C", "B"}, 0},
		{"scalar response is wrong", "A", 0},
	}
	for _, tc := range cases {
		out := e.Grade(qs, []Response{{QuestionID: "q1", Value: tc.value}}, 2)
		if out.Score != tc.want {
			t.Fatalf("%s: got score=%v, want %v", tc.name, out.Score, tc.want)
		}
	}
}

func TestGrade_MalformedAnswersAreWrongNotFatal(t *testing.T) {
	e := NewEngine()
	qs := []Q{
		{ID: "q1", Type: "MCQ", Marks: 1, Key: "A"},
		{ID: "q2", Type: "ShortAnswer", Marks: 1, Key: "x"},
	}
	out := e.Grade(qs, []Response{
		{QuestionID: "", Value: "A"},       // missing question id
		{QuestionID: "q1", Value: 42},      // non-string where string required
		{QuestionID: "q2", Value: []int{}}, // wrong shape entirely
	}, 1)
	if out.Score != 0 {
		t.Fatalf("malformed entries must grade as incorrect, got score=%v", out.Score)
	}
}

func TestGrade_UnknownTypeContributesZero(t *testing.T) {
	e := NewEngine()
	qs := []Q{{ID: "q1", Type: "Essay", Marks: 5, Key: "whatever"}}
	out := e.Grade(qs, []Response{{QuestionID: "q1", Value: "whatever"}}, 1)
	if out.Score != 0 {
		t.Fatalf("unknown type must contribute zero, got score=%v", out.Score)
	}
}

func TestGrade_DuplicateResponsesFirstWins(t *testing.T) {
	e := NewEngine()
	qs := []Q{{ID: "q1", Type: "MCQ", Marks: 1, Key: "A"}}
	out := e.Grade(qs, []Response{
		{QuestionID: "q1", Value: "A"},
		{QuestionID: "q1", Value: "B"},
	}, 1)
	if out.Score != 1 {
		t.Fatalf("first response for a question should win, got score=%v", out.Score)
	}
}

package game

import (
	"testing"

	"github.com/omerad1/TriviaKings/internal/questions"
)

func testGrader() Grader {
	return Grader{
		TrueTokens:  []string{"Y", "T", "1"},
		FalseTokens: []string{"N", "F", "0"},
	}
}

func TestGradePartitions(t *testing.T) {
	players := []*Player{{Name: "alice"}, {Name: "bob"}, {Name: "carol"}, {Name: "dave"}}
	answers := map[string]Answer{
		"alice": {Text: "T", Received: true},
		"bob":   {Text: "F", Received: true},
		"carol": {Text: "maybe", Received: true},
		"dave":  {},
	}
	q := questions.Question{Text: "water is wet", IsTrue: true}

	res := testGrader().Grade(q, players, answers)

	if len(res.Correct) != 1 || res.Correct[0].Name != "alice" {
		t.Fatalf("expected correct [alice], got %v", names(res.Correct))
	}
	if len(res.Incorrect) != 2 {
		t.Fatalf("expected 2 incorrect, got %v", names(res.Incorrect))
	}
	if len(res.Silent) != 1 || res.Silent[0].Name != "dave" {
		t.Fatalf("expected silent [dave], got %v", names(res.Silent))
	}
}

func TestGradeFalseQuestion(t *testing.T) {
	players := []*Player{{Name: "alice"}, {Name: "bob"}}
	answers := map[string]Answer{
		"alice": {Text: "N", Received: true},
		"bob":   {Text: "Y", Received: true},
	}
	q := questions.Question{Text: "the sky is green", IsTrue: false}

	res := testGrader().Grade(q, players, answers)

	if len(res.Correct) != 1 || res.Correct[0].Name != "alice" {
		t.Fatalf("expected correct [alice], got %v", names(res.Correct))
	}
}

func TestGradeEmptyStringIncorrectNotSilent(t *testing.T) {
	players := []*Player{{Name: "alice"}}
	answers := map[string]Answer{"alice": {Text: "", Received: true}}
	q := questions.Question{Text: "water is wet", IsTrue: true}

	res := testGrader().Grade(q, players, answers)

	if len(res.Incorrect) != 1 {
		t.Fatalf("expected empty answer graded incorrect, got %+v", res)
	}
	if len(res.Silent) != 0 {
		t.Fatal("empty answer must not be treated as no answer")
	}
}

func TestGradeIdempotent(t *testing.T) {
	players := []*Player{{Name: "alice"}, {Name: "bob"}, {Name: "carol"}}
	answers := map[string]Answer{
		"alice": {Text: "1", Received: true},
		"bob":   {Text: "0", Received: true},
	}
	q := questions.Question{Text: "water is wet", IsTrue: true}
	g := testGrader()

	first := g.Grade(q, players, answers)
	second := g.Grade(q, players, answers)

	if len(first.Correct) != len(second.Correct) ||
		len(first.Incorrect) != len(second.Incorrect) ||
		len(first.Silent) != len(second.Silent) {
		t.Fatalf("re-grading changed partition sizes: %+v vs %+v", first, second)
	}
	for i := range first.Correct {
		if first.Correct[i] != second.Correct[i] {
			t.Fatal("re-grading changed the correct partition")
		}
	}
	for i := range first.Incorrect {
		if first.Incorrect[i] != second.Incorrect[i] {
			t.Fatal("re-grading changed the incorrect partition")
		}
	}
}

func names(players []*Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

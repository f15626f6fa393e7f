package game

import (
	"github.com/omerad1/TriviaKings/internal/questions"
)

// Grader decides answer correctness by membership in the configured true and
// false token sets. Grading is pure: the same answers and question always
// partition the same way.
type Grader struct {
	TrueTokens  []string
	FalseTokens []string
}

// RoundResult partitions one round's players by how they answered.
type RoundResult struct {
	Correct   []*Player
	Incorrect []*Player
	// Silent players never produced an answer: disconnect, socket error,
	// or deadline. Distinct from answering with an empty string.
	Silent []*Player
}

// Grade partitions players by their answers to the question. An answer is
// correct iff the question is true and the token is in the true set, or the
// question is false and the token is in the false set. Any other received
// token, the empty string included, is incorrect.
func (g Grader) Grade(q questions.Question, players []*Player, answers map[string]Answer) RoundResult {
	var res RoundResult
	for _, p := range players {
		ans, ok := answers[p.Name]
		if !ok || !ans.Received {
			res.Silent = append(res.Silent, p)
			continue
		}
		if g.correct(q, ans.Text) {
			res.Correct = append(res.Correct, p)
		} else {
			res.Incorrect = append(res.Incorrect, p)
		}
	}
	return res
}

func (g Grader) correct(q questions.Question, token string) bool {
	tokens := g.FalseTokens
	if q.IsTrue {
		tokens = g.TrueTokens
	}
	for _, t := range tokens {
		if token == t {
			return true
		}
	}
	return false
}

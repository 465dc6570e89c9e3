// Package evaluate computes keyword coverage over an interview transcript
// and decides whether a phase has been discussed enough to move on.
//
// This is deliberately a literal-substring heuristic rather than semantic
// matching: it runs synchronously on every turn with zero latency and no
// additional model calls.
package evaluate

import (
	"fmt"
	"math"
	"strings"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
)

// Decision values returned by Evaluate.
const (
	DecisionContinue  = "continue"
	DecisionNextPhase = "next_phase"
)

// Threshold is the coverage ratio at or above which a phase is considered
// sufficiently discussed.
const Threshold = 0.6

// Message is one transcript entry. Role is "user" for candidate messages;
// anything else is treated as agent-authored.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the outcome of one coverage evaluation. Gaps and
// FollowupQuestions are populated only on continue; Message only on
// next_phase.
type Result struct {
	Decision          string   `json:"decision"`
	Score             int      `json:"score"`
	Gaps              []string `json:"gaps,omitempty"`
	FollowupQuestions string   `json:"followup_questions,omitempty"`
	Message           string   `json:"message,omitempty"`
}

// Coverage returns the fraction of keywords found as lowercase substrings of
// the concatenated transcript text. An empty keyword list is trivially
// covered (1.0).
func Coverage(keywords []string, transcript []Message, source catalog.CoverageSource) float64 {
	if len(keywords) == 0 {
		return 1.0
	}
	text := flatten(transcript, source)
	found := 0
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}

// Evaluate applies the coverage decision rule for one phase turn. The result
// is a pure function of its inputs.
func Evaluate(keywords []string, transcript []Message, source catalog.CoverageSource) Result {
	text := flatten(transcript, source)

	coverage := 1.0
	var gaps []string
	if len(keywords) > 0 {
		found := 0
		for _, kw := range keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				found++
			} else {
				gaps = append(gaps, kw)
			}
		}
		coverage = float64(found) / float64(len(keywords))
	}

	score := int(math.Floor(coverage * 10))

	if coverage >= Threshold {
		return Result{
			Decision: DecisionNextPhase,
			Score:    score,
			Message:  "Good coverage of this phase. Let's move on to the next one.",
		}
	}

	return Result{
		Decision:          DecisionContinue,
		Score:             score,
		Gaps:              gaps,
		FollowupQuestions: followup(gaps),
	}
}

// followup builds a hint from the first two uncovered keywords. The generic
// branch is unreachable under the current decision rule (continue implies at
// least one gap) but kept so a caller can never get an empty prompt.
func followup(gaps []string) string {
	switch {
	case len(gaps) >= 2:
		return fmt.Sprintf("Can you talk more about %s and %s?", gaps[0], gaps[1])
	case len(gaps) == 1:
		return fmt.Sprintf("Can you talk more about %s?", gaps[0])
	default:
		return "Can you expand on your approach to this phase?"
	}
}

func flatten(transcript []Message, source catalog.CoverageSource) string {
	var b strings.Builder
	for _, m := range transcript {
		if source == catalog.CoverageUser && m.Role != "user" {
			continue
		}
		b.WriteString(strings.ToLower(m.Content))
		b.WriteByte(' ')
	}
	return b.String()
}

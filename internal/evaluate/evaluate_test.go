package evaluate

import (
	"reflect"
	"testing"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
)

var designKeywords = []string{"qps", "scale", "users", "latency", "availability"}

func userMsg(content string) Message {
	return Message{Role: "user", Content: content}
}

func TestEvaluate_Decisions(t *testing.T) {
	tests := []struct {
		name         string
		keywords     []string
		transcript   []Message
		wantDecision string
		wantScore    int
		wantGaps     []string
	}{
		{
			name:     "four of five keywords present",
			keywords: designKeywords,
			transcript: []Message{
				userMsg("We need to handle 10k QPS with high availability for millions of users with low latency"),
			},
			wantDecision: DecisionNextPhase,
			wantScore:    8,
		},
		{
			name:     "no keywords present",
			keywords: designKeywords,
			transcript: []Message{
				userMsg("I think we should use a database"),
			},
			wantDecision: DecisionContinue,
			wantScore:    0,
			wantGaps:     designKeywords,
		},
		{
			name:         "empty transcript",
			keywords:     designKeywords,
			transcript:   nil,
			wantDecision: DecisionContinue,
			wantScore:    0,
			wantGaps:     designKeywords,
		},
		{
			name:         "no keywords configured is trivially covered",
			keywords:     nil,
			transcript:   nil,
			wantDecision: DecisionNextPhase,
			wantScore:    10,
		},
		{
			name:     "exactly at threshold",
			keywords: designKeywords,
			transcript: []Message{
				userMsg("expect 5k qps at full scale for 2M users"),
			},
			wantDecision: DecisionNextPhase,
			wantScore:    6,
		},
		{
			name:     "just under threshold",
			keywords: designKeywords,
			transcript: []Message{
				userMsg("maybe 5k qps from all our users"),
			},
			wantDecision: DecisionContinue,
			wantScore:    4,
			wantGaps:     []string{"scale", "latency", "availability"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.keywords, tt.transcript, catalog.CoverageUser)
			if got.Decision != tt.wantDecision {
				t.Errorf("Decision = %q, want %q", got.Decision, tt.wantDecision)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
			if tt.wantGaps != nil && !reflect.DeepEqual(got.Gaps, tt.wantGaps) {
				t.Errorf("Gaps = %v, want %v", got.Gaps, tt.wantGaps)
			}
			if got.Decision == DecisionContinue && got.FollowupQuestions == "" {
				t.Error("continue result must carry followup questions")
			}
			if got.Decision == DecisionNextPhase && got.Message == "" {
				t.Error("next_phase result must carry a message")
			}
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	transcript := []Message{userMsg("we shard by user id to spread qps")}
	first := Evaluate(designKeywords, transcript, catalog.CoverageUser)
	second := Evaluate(designKeywords, transcript, catalog.CoverageUser)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different results: %+v vs %+v", first, second)
	}
}

func TestEvaluate_CoverageSource(t *testing.T) {
	transcript := []Message{
		{Role: "assistant", Content: "Think about qps, scale, users, latency and availability."},
		userMsg("ok"),
	}

	userOnly := Evaluate(designKeywords, transcript, catalog.CoverageUser)
	if userOnly.Decision != DecisionContinue {
		t.Errorf("user-only source counted agent text: decision = %q", userOnly.Decision)
	}

	all := Evaluate(designKeywords, transcript, catalog.CoverageAll)
	if all.Decision != DecisionNextPhase {
		t.Errorf("all-messages source missed agent text: decision = %q", all.Decision)
	}
}

func TestCoverage_Bounds(t *testing.T) {
	transcripts := [][]Message{
		nil,
		{userMsg("")},
		{userMsg("qps scale users latency availability")},
		{userMsg("unrelated chatter"), {Role: "assistant", Content: "more chatter"}},
	}
	for _, tr := range transcripts {
		c := Coverage(designKeywords, tr, catalog.CoverageUser)
		if c < 0 || c > 1 {
			t.Errorf("coverage %v out of [0,1] for transcript %v", c, tr)
		}
	}

	if c := Coverage(nil, []Message{userMsg("anything")}, catalog.CoverageUser); c != 1.0 {
		t.Errorf("coverage with empty keyword set = %v, want 1.0", c)
	}
}

func TestFollowup_GapHints(t *testing.T) {
	got := Evaluate(designKeywords, []Message{userMsg("hello")}, catalog.CoverageUser)
	want := "Can you talk more about qps and scale?"
	if got.FollowupQuestions != want {
		t.Errorf("FollowupQuestions = %q, want %q", got.FollowupQuestions, want)
	}
}

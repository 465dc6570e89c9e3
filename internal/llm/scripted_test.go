package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/srivatsj/interview-agent-sub000/internal/evaluate"
)

func lastUser(content string) []evaluate.Message {
	return []evaluate.Message{{Role: "user", Content: content}}
}

func TestScripted_Routing(t *testing.T) {
	s := NewScripted()
	routingTool := []Tool{{Name: "set_routing"}}

	tests := []struct {
		name     string
		message  string
		wantCall bool
		wantCo   string
		wantType string
	}{
		{"google design", "a google system design round please", true, "google", "system_design"},
		{"meta behavioral", "meta behavioral practice", true, "meta", "behavioral"},
		{"unknown company", "an amazon interview", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := s.Respond(context.Background(), "routing", lastUser(tt.message), routingTool)
			if err != nil {
				t.Fatal(err)
			}
			if !tt.wantCall {
				if reply.ToolCall != nil {
					t.Fatalf("ToolCall = %+v, want text reply", reply.ToolCall)
				}
				if reply.Text == "" {
					t.Error("empty fallback text")
				}
				return
			}
			if reply.ToolCall == nil || reply.ToolCall.Name != "set_routing" {
				t.Fatalf("ToolCall = %+v", reply.ToolCall)
			}
			var args struct {
				Company       string `json:"company"`
				InterviewType string `json:"interview_type"`
			}
			if err := json.Unmarshal(reply.ToolCall.Args, &args); err != nil {
				t.Fatal(err)
			}
			if args.Company != tt.wantCo || args.InterviewType != tt.wantType {
				t.Errorf("args = %+v, want %s/%s", args, tt.wantCo, tt.wantType)
			}
		})
	}
}

func TestScripted_Profile(t *testing.T) {
	s := NewScripted()
	profileTool := []Tool{{Name: "set_profile"}}

	t.Run("four field form", func(t *testing.T) {
		reply, err := s.Respond(context.Background(), "intro",
			lastUser("Alice, 3 years, payments, built a double-entry ledger"), profileTool)
		if err != nil {
			t.Fatal(err)
		}
		if reply.ToolCall == nil || reply.ToolCall.Name != "set_profile" {
			t.Fatalf("ToolCall = %+v", reply.ToolCall)
		}
		var args struct {
			Name            string `json:"name"`
			YearsExperience int    `json:"years_experience"`
			Domain          string `json:"domain"`
			Projects        string `json:"projects"`
		}
		if err := json.Unmarshal(reply.ToolCall.Args, &args); err != nil {
			t.Fatal(err)
		}
		if args.Name != "Alice" || args.YearsExperience != 3 || args.Domain != "payments" {
			t.Errorf("args = %+v", args)
		}
		if args.Projects != "built a double-entry ledger" {
			t.Errorf("Projects = %q", args.Projects)
		}
	})

	// Messages that don't carry all four fields fall through to a text reply.
	incomplete := []string{
		"Alice, payments, a ledger, another project",
		"just Alice",
		"3 years, payments, a ledger",
	}
	for _, msg := range incomplete {
		reply, err := s.Respond(context.Background(), "intro", lastUser(msg), profileTool)
		if err != nil {
			t.Fatal(err)
		}
		if reply.ToolCall != nil {
			t.Errorf("Respond(%q) invoked a tool, want text reply", msg)
		}
	}
}

func TestScripted_Closing(t *testing.T) {
	s := NewScripted()
	closingTool := []Tool{{Name: "mark_closing_complete"}}

	tests := []struct {
		message  string
		wantCall bool
	}{
		{"No, that's everything, thanks!", true},
		{"I'm done here", true},
		{"What team would I be working with?", false},
	}
	for _, tt := range tests {
		reply, err := s.Respond(context.Background(), "closing", lastUser(tt.message), closingTool)
		if err != nil {
			t.Fatal(err)
		}
		if got := reply.ToolCall != nil; got != tt.wantCall {
			t.Errorf("Respond(%q) tool call = %v, want %v", tt.message, got, tt.wantCall)
		}
	}
}

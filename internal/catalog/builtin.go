package catalog

import "github.com/srivatsj/interview-agent-sub000/internal/config"

// Builtins returns the compiled-in catalogs used when the config file
// supplies none: the google system-design track and the meta system-design
// and behavioral tracks.
func Builtins() []config.CatalogConfig {
	return []config.CatalogConfig{
		{
			Company:       "google",
			InterviewType: "system_design",
			Phases: []config.PhaseConfig{
				{
					ID:   "requirements",
					Name: "Requirements Alignment",
					Context: "Pin down functional and non-functional requirements before any " +
						"architecture talk. Push the candidate to quantify: expected QPS, user " +
						"counts, latency targets, availability goals. Do not let them jump " +
						"ahead to components.",
					Keywords: []string{"qps", "scale", "users", "latency", "availability"},
				},
				{
					ID:   "architecture",
					Name: "High-Level Architecture",
					Context: "Walk through the major components end to end. The candidate " +
						"should name an API layer, storage, caching, and how traffic is " +
						"distributed. Ask for a diagram-level narrative, not implementation " +
						"detail.",
					Keywords: []string{"api", "database", "cache", "load balancer", "queue"},
				},
				{
					ID:   "deep_dive",
					Name: "Deep Dive and Tradeoffs",
					Context: "Pick the riskiest component from the high-level design and go " +
						"deep: data partitioning, replication strategy, consistency model, " +
						"and where the bottlenecks are. Every choice should come with the " +
						"tradeoff it buys.",
					Keywords: []string{"consistency", "replication", "sharding", "bottleneck", "tradeoff"},
				},
			},
		},
		{
			Company:       "meta",
			InterviewType: "system_design",
			Phases: []config.PhaseConfig{
				{
					ID:   "product_requirements",
					Name: "Product Requirements",
					Context: "Meta-style product design: start from the user experience. What " +
						"does the feed/notification/story product need to do, for how many " +
						"users, and what does success look like?",
					Keywords: []string{"users", "feed", "engagement", "scale", "latency"},
				},
				{
					ID:   "data_model",
					Name: "Data Model and APIs",
					Context: "Define the entities, their relationships, and the read/write " +
						"APIs. Social graph access patterns matter more than storage engine " +
						"trivia here.",
					Keywords: []string{"schema", "graph", "api", "read", "write"},
				},
				{
					ID:   "scaling",
					Name: "Scaling the Hot Path",
					Context: "Fan-out on write versus fan-out on read, caching the feed, " +
						"and keeping p99 latency acceptable for celebrity accounts.",
					Keywords: []string{"fanout", "cache", "celebrity", "p99", "shard"},
				},
			},
		},
		{
			Company:       "meta",
			InterviewType: "behavioral",
			Phases: []config.PhaseConfig{
				{
					ID:   "conflict",
					Name: "Navigating Conflict",
					Context: "Probe for a concrete disagreement with a peer or manager: the " +
						"situation, the candidate's actions, and what changed as a result.",
					Keywords: []string{"disagree", "feedback", "resolve", "team"},
				},
				{
					ID:   "impact",
					Name: "Demonstrated Impact",
					Context: "Ask for the project the candidate is proudest of and dig into " +
						"their individual contribution versus the team's, with measurable " +
						"outcomes.",
					Keywords: []string{"impact", "metric", "result", "ownership"},
				},
			},
		},
	}
}

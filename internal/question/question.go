// Package question selects an opening design question by experience tier.
package question

import (
	"fmt"
	"strings"
)

// Tier boundaries: <2 years beginner, 2-4 intermediate, >=5 advanced.
const (
	intermediateMin = 2
	advancedMin     = 5
)

// Select returns the opening question for a candidate. Domain defaults to
// "web services" when empty so the wording never has a hole in it.
func Select(yearsExperience int, domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		domain = "web services"
	}

	switch {
	case yearsExperience >= advancedMin:
		return fmt.Sprintf(
			"Design a globally distributed platform in the %s space. Assume hundreds of millions of users; I want you to drive the requirements, the architecture, and the hardest tradeoffs yourself.",
			domain)
	case yearsExperience >= intermediateMin:
		return fmt.Sprintf(
			"Design a service in the %s space that needs to scale to millions of users. Walk me through requirements first, then the high-level architecture.",
			domain)
	default:
		return fmt.Sprintf(
			"Let's design a simple service in the %s space together. Start by telling me what the system needs to do and who uses it.",
			domain)
	}
}

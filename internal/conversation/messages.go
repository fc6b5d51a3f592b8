package conversation

import (
	"fmt"
	"strings"

	"github.com/spigell/talentscout/internal/intake"
)

const (
	GreetingMessage = "👋 Hello! I'm the TalentScout Hiring Assistant, an AI-powered interviewer designed to help with your initial screening process. " +
		"You can type 'exit' or 'quit' at any time to end our conversation. Let's begin! Please tell me your full name."
	ClosingMessage    = "Thank you for your time! We'll review your application and contact you shortly."
	CompletionMessage = "Assessment complete! Thank you for your responses."
)

// fallbackResponses acknowledge input that no step accepts.
var fallbackResponses = []string{
	"Let's focus on your application. Could you clarify that?",
	"I'm here to help with your job application. Please continue.",
}

// exitKeywords end the conversation when found anywhere in the input.
var exitKeywords = []string{"exit", "quit", "stop"}

// Prompt is the message asking for the value collected at step.
func Prompt(step Step) string {
	switch step {
	case StepGreeting, StepCollectName:
		return GreetingMessage
	case StepCollectEmail:
		return "Thank you! What's your email address?"
	case StepCollectPhone:
		return "Please provide your phone number:"
	case StepCollectLocation:
		return "What is your current location (city, country)?"
	case StepCollectExperience:
		return "How many years of professional experience do you have?"
	case StepCollectPosition:
		return "What position(s) are you applying for?"
	case StepCollectTechStack:
		return "Please list your technical stack (comma-separated):"
	case StepEnd:
		return ClosingMessage
	default:
		return ""
	}
}

// FixedMessages lists every reply that does not depend on the candidate or
// on the language model.
func FixedMessages() []string {
	out := []string{CompletionMessage}
	for step := StepCollectName; step <= StepEnd; step++ {
		if p := Prompt(step); p != "" {
			out = append(out, p)
		}
	}
	out = append(out, fallbackResponses...)
	return append(out,
		intake.ErrName, intake.ErrEmail, intake.ErrPhone, intake.ErrLocation,
		intake.ErrExperience, intake.ErrPosition, intake.ErrTechStack,
	)
}

func assessmentIntro(tech, question string) string {
	return fmt.Sprintf("Let's begin the technical assessment!\n\n%s questions:\n\n%s", strings.ToUpper(tech), question)
}

func nextTechIntro(tech, question string) string {
	return fmt.Sprintf("Moving to %s questions:\n\n%s", strings.ToUpper(tech), question)
}

func wantsExit(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range exitKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

package consultation

import "strings"

// Short-circuit handling for messages that never need the LLM: greetings and
// vague one-word replies get a canned nudge instead of a full turn.

var greetings = []string{
	"hey", "hi", "hello", "yo", "sup", "howdy",
	"greetings", "morning", "evening", "afternoon",
}

func isGreeting(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	if len(strings.Fields(lower)) > 3 {
		return false
	}
	for _, g := range greetings {
		if strings.Contains(lower, g) {
			return true
		}
	}
	return false
}

const greetingReply = "Hello! I'm here to help you build a solution for your business. What kind of business do you run, and what's the biggest problem you'd like to solve?"

// vagueReply returns a canned clarification for low-signal replies, or ""
// when the message carries enough content for a real turn.
func vagueReply(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))
	switch {
	case lower == "what" || lower == "what?" || lower == "huh" || lower == "huh?":
		return "Let me rephrase. Tell me about your business and the main problem you're trying to solve. For example: \"I run a bakery and spend hours every week on order tracking.\""
	case lower == "maybe" || lower == "idk" || lower == "i don't know" || lower == "not sure":
		return "That's okay. Let's start simple: what does your business do day to day? Even a rough description helps."
	case len(lower) < 5:
		return "Could you tell me a bit more? A sentence or two about your business and what's slowing you down would help a lot."
	}
	for _, filler := range []string{"okay", "ok", "sure", "yes", "no", "fine", "alright"} {
		if lower == filler {
			return "Got it. To keep moving, could you describe your current process for the problem we're discussing? What steps does it involve, and who handles them?"
		}
	}
	return ""
}

package conversation

import (
	"fmt"
	"strings"

	"symptom-check-bot/internal/catalog"
	"symptom-check-bot/internal/diagnosis"
)

const disclaimer = "Note: This assistant provides general health information only and is not a substitute " +
	"for professional medical advice. If you think you may be experiencing a medical emergency, seek immediate care."

// cannedReplies are the static small-talk answers keyed by classifier topic.
var cannedReplies = map[string]string{
	"hi":    "👋 Hello! I'm your health assistant. How can I support you today? Type 'help' to see what this bot can do.",
	"thanks": "You're welcome! 🙏 Stay safe and take care.",
	"bye":   "Goodbye! 👋 Wishing you good health and happiness.",
	"who":   "I'm a cautious, multilingual health assistant here to guide you with wellness tips and safety advice.",
	"help":  "You can ask me about symptoms, healthy habits, or how to stay safe. Type 'commands' to see the available services.",
	"commands": "📋 Available commands:\n" +
		"- 'check: symptom1, symptom2' → run a health check based on symptoms\n" +
		"- 'check' → start a check and add symptoms one message at a time\n" +
		"- '/reset' → clear your session and start fresh\n" +
		"- '/summary' → get a recap of your current symptom check\n" +
		"- '/report' → get a report of your last completed check\n" +
		"- 'resources' → view trusted health websites\n" +
		"- 'languages' → learn about multilingual support\n" +
		"- 'help' → see what I can do",
	"languages": "I can understand and respond in multiple languages. Just type your message in your preferred language!",
	"resources": "For reliable health information, visit:\n" +
		"- National Health Portal (India): https://www.nhp.gov.in\n" +
		"- Ministry of Health and Family Welfare: https://mohfw.gov.in\n" +
		"- World Health Organization: https://www.who.int",
	"emergency": "🚨 If you're experiencing a medical emergency, please contact local emergency services immediately. " +
		"In India, dial 102 for ambulance support. Your safety is the top priority!",
	"check": "🩺 To check symptoms, type:\n'check: symptom1, symptom2, fatigue'\n" +
		"I'll analyze your symptoms and suggest possible conditions, precautions, and severity.",
}

const (
	replyReset      = "🧹 Session cleared. Let's start fresh!"
	replyCollecting = "🩺 Okay, let's check your symptoms. Send them one message at a time or comma separated " +
		"(you can mention 'for N days'), then say 'done'."
	replyNoSymptoms      = "⚠️ No valid symptoms found in our symptom list. Please describe your symptoms again."
	replyNothingToFinish = "⚠️ I don't have any symptoms from you yet. Please send at least one symptom first."
	replyChatDown        = "⚠️ I'm currently unable to respond via the AI assistant. Please try again later."
)

func droppedNote(dropped []string) string {
	if len(dropped) == 0 {
		return ""
	}
	return fmt.Sprintf("\n(I didn't recognize: %s)", strings.Join(dropped, ", "))
}

func collectedReply(matched []catalog.Symptom, dropped []string) string {
	names := make([]string, len(matched))
	for i, s := range matched {
		names[i] = s.Display()
	}
	return fmt.Sprintf("📝 Noted: %s.%s\nAdd more symptoms, or say 'done' when you're finished.",
		strings.Join(names, ", "), droppedNote(dropped))
}

func followupReply(symptoms []catalog.Symptom, again bool) string {
	var b strings.Builder
	if again {
		b.WriteString("🧪 I still need a bit more info to be accurate.\n")
	} else {
		b.WriteString("🧪 I need a bit more info to be accurate.\n")
	}
	b.WriteString("Are you also experiencing any of these symptoms?\n")
	for _, s := range symptoms {
		b.WriteString("- " + s.Display() + "\n")
	}
	b.WriteString("Reply with the ones you have, or 'none'.")
	return b.String()
}

func resultReply(res diagnosis.Result, bestEffort bool) string {
	var b strings.Builder
	if bestEffort {
		b.WriteString("ℹ️ I've run out of follow-up questions, so here is my best assessment.\n")
	}
	fmt.Fprintf(&b, "🩺 You may have: %s (%.2f%% confidence)\n", res.Condition, res.Confidence)
	fmt.Fprintf(&b, "📖 Description: %s\n", res.Description)
	fmt.Fprintf(&b, "⚠️ Severity: %s\n", res.Severity)
	b.WriteString("✅ Precautions:\n")
	for i, p := range res.Precautions {
		fmt.Fprintf(&b, "%d) %s\n", i+1, p)
	}
	b.WriteString("\n" + disclaimer)
	return b.String()
}

// recapText is the structured summary of a session, used directly when no
// LLM is configured and as the prompt for the LLM recap otherwise.
func recapText(matched, asked []catalog.Symptom, phase string) string {
	var b strings.Builder
	b.WriteString("Symptom check status: " + phase + ".\n")
	if len(matched) == 0 {
		b.WriteString("No symptoms reported yet.")
		return b.String()
	}
	names := make([]string, len(matched))
	for i, s := range matched {
		names[i] = s.Display()
	}
	b.WriteString("Reported symptoms: " + strings.Join(names, ", ") + ".")
	if len(asked) > 0 {
		askedNames := make([]string, len(asked))
		for i, s := range asked {
			askedNames[i] = s.Display()
		}
		b.WriteString("\nFollow-ups already asked: " + strings.Join(askedNames, ", ") + ".")
	}
	return b.String()
}

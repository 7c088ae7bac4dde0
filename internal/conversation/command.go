package conversation

import (
	"regexp"
	"strconv"
	"strings"
)

// CommandKind tags the single classification pass over inbound text. The
// state machine only ever sees these tags plus pre-split symptom tokens,
// never raw free text.
type CommandKind int

const (
	// KindText is unclassified text: symptom tokens while a check is in
	// progress, general chat otherwise.
	KindText CommandKind = iota
	// KindCheck starts a symptom check, optionally carrying an initial
	// symptom batch.
	KindCheck
	// KindFinish signals the user is done listing symptoms.
	KindFinish
	// KindDecline answers a follow-up prompt with "none of these".
	KindDecline
	// KindReset clears the session.
	KindReset
	// KindSummary asks for a recap of the current symptom check.
	KindSummary
	// KindReport asks for the PDF report of a completed check.
	KindReport
	// KindSmallTalk matches a canned reply; Topic holds the reply key.
	KindSmallTalk
)

// Command is the classified form of one inbound turn.
type Command struct {
	Kind   CommandKind
	Tokens []string // symptom tokens, comma/newline split
	Topic  string   // canned reply key for KindSmallTalk
	Days   int      // days since onset if stated, else 0
}

var (
	splitRe   = regexp.MustCompile(`[,\n]`)
	daysRe    = regexp.MustCompile(`(?i)(?:for\s+)?(\d+)\s*days?`)
	finishRe  = regexp.MustCompile(`^(done|finish|finished|that'?s all|no more)[.!]?$`)
	declineRe = regexp.MustCompile(`^(no|none|nope|not sure|none of these)[.!]?$`)
)

// smallTalkPatterns maps canned-reply keys to their trigger patterns. Order
// matters: first match wins.
var smallTalkPatterns = []struct {
	topic string
	re    *regexp.Regexp
}{
	{"hi", regexp.MustCompile(`\b(hi|hello|hey)\b`)},
	{"thanks", regexp.MustCompile(`\b(thanks|thank you)\b`)},
	{"bye", regexp.MustCompile(`\b(bye|goodbye)\b`)},
	{"who", regexp.MustCompile(`\b(who are you|your name)\b`)},
	{"help", regexp.MustCompile(`\b(help|support)\b`)},
	{"commands", regexp.MustCompile(`\b(command|commands)\b`)},
	{"languages", regexp.MustCompile(`\b(languages?)\b`)},
	{"resources", regexp.MustCompile(`\b(resources?|info|information)\b`)},
	{"emergency", regexp.MustCompile(`\b(emergency|urgent)\b`)},
	{"check", regexp.MustCompile(`\b(check symptoms?|symptoms?)\b`)},
}

// Classify turns raw inbound text into a tagged command. Pure and
// context-free; phase-dependent meaning of KindText is the state machine's
// business.
func Classify(text string) Command {
	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)

	switch lowered {
	case "/reset":
		return Command{Kind: KindReset}
	case "/summary":
		return Command{Kind: KindSummary}
	case "/report":
		return Command{Kind: KindReport}
	}

	if strings.HasPrefix(lowered, "check:") {
		tokens, days := splitSymptoms(trimmed[len("check:"):])
		return Command{Kind: KindCheck, Tokens: tokens, Days: days}
	}
	if lowered == "check" {
		return Command{Kind: KindCheck}
	}

	if finishRe.MatchString(lowered) {
		return Command{Kind: KindFinish}
	}
	if declineRe.MatchString(lowered) {
		return Command{Kind: KindDecline}
	}

	for _, p := range smallTalkPatterns {
		if p.re.MatchString(lowered) {
			return Command{Kind: KindSmallTalk, Topic: p.topic}
		}
	}

	tokens, days := splitSymptoms(trimmed)
	return Command{Kind: KindText, Tokens: tokens, Days: days}
}

// splitSymptoms breaks comma/newline separated input into candidate symptom
// tokens and extracts an optional "for N days" mention.
func splitSymptoms(text string) ([]string, int) {
	days := 0
	if m := daysRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
			days = v
		}
		text = daysRe.ReplaceAllString(text, "")
	}

	var tokens []string
	for _, part := range splitRe.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens, days
}

package evade

// DefaultFirstFeedback is shown for the first placements.
const DefaultFirstFeedback = "Prova a prenderlo."

// DefaultFeedback is the rotating status text shown after each escape.
var DefaultFeedback = []string{
	"Nope.",
	"Quasi…",
	"Non oggi!",
	"Ci riproviamo?",
	"Sicura/o di voler premere “No”?",
}

// Feedback picks the status text for the given attempt count.
func Feedback(attempts int, lines []string, first string) string {
	if attempts < 2 || len(lines) == 0 {
		return first
	}
	return lines[attempts%len(lines)]
}

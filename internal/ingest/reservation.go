package ingest

import (
	"regexp"
	"strings"

	"advisorcli/pkg/contracts/domain"
)

// Classification is the reservation verdict for a single record.
// ReservationType and TermYears carry meaning only when IsReservation
// is true.
type Classification struct {
	IsReservation bool
	Type          domain.ReservationType
	TermYears     int
}

var (
	// riWholeWord matches "RI"/"RIs" as a standalone abbreviation so
	// words like "pricing" or "Maria" never trigger it.
	riWholeWord = regexp.MustCompile(`(?i)\bris?\b`)

	oneYearPattern   = regexp.MustCompile(`(?i)\b(?:1|one)[\s-]?year\b|\b12[\s-]?months?\b`)
	threeYearPattern = regexp.MustCompile(`(?i)\b(?:3|three)[\s-]?year\b|\b36[\s-]?months?\b`)

	commitmentPattern = regexp.MustCompile(`(?i)\bcommit(?:ment)?\b`)
)

// reservationMarkers flag commitment-based savings when present anywhere
// in the combined text. "commit"/"commitment" alone is not enough; it
// must co-occur with a term reference.
var reservationMarkers = []string{
	"reserved instance",
	"reserved instances",
	"reserved vm instance",
	"reserved vm instances",
	"savings plan",
	"reserved capacity",
	"reservation",
}

// ReservationClassifier detects commitment-based savings in free-form
// recommendation text. It is a pure, case-insensitive heuristic: false
// positives and negatives on ambiguous wording are expected, and it
// never fails.
type ReservationClassifier struct{}

func NewReservationClassifier() *ReservationClassifier {
	return &ReservationClassifier{}
}

// Classify inspects the concatenated recommendation and benefits text.
func (c *ReservationClassifier) Classify(recommendationText, benefitsText string) Classification {
	text := strings.ToLower(recommendationText + " " + benefitsText)

	if !isReservationText(text) {
		return Classification{}
	}

	return Classification{
		IsReservation: true,
		Type:          reservationType(text),
		TermYears:     commitmentTerm(text),
	}
}

// ClassifyRecords annotates each record in place and returns how many
// were flagged as reservations.
func (c *ReservationClassifier) ClassifyRecords(records []domain.Recommendation) int {
	flagged := 0
	for i := range records {
		verdict := c.Classify(records[i].Recommendation, records[i].PotentialBenefits)
		records[i].IsReservation = verdict.IsReservation
		records[i].ReservationType = verdict.Type
		records[i].CommitmentTermYears = verdict.TermYears
		if verdict.IsReservation {
			flagged++
		}
	}
	return flagged
}

func isReservationText(text string) bool {
	for _, marker := range reservationMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	if riWholeWord.MatchString(text) {
		return true
	}
	if commitmentPattern.MatchString(text) && hasTermReference(text) {
		return true
	}
	return false
}

func hasTermReference(text string) bool {
	return oneYearPattern.MatchString(text) || threeYearPattern.MatchString(text)
}

// reservationType picks the first matching kind; precedence follows how
// specific each marker is.
func reservationType(text string) domain.ReservationType {
	switch {
	case strings.Contains(text, "reserved instance"),
		strings.Contains(text, "reserved vm instance"),
		riWholeWord.MatchString(text):
		return domain.ReservationTypeReservedInstance
	case strings.Contains(text, "savings plan"):
		return domain.ReservationTypeSavingsPlan
	case strings.Contains(text, "reserved capacity"),
		strings.Contains(text, "database reservation"):
		return domain.ReservationTypeReservedCapacity
	default:
		return domain.ReservationTypeOther
	}
}

// commitmentTerm extracts the term in years. When both terms appear
// (e.g. "one or three year options") or no explicit term is present,
// the answer is 3: Azure prices most reservations on the 3-year term.
func commitmentTerm(text string) int {
	oneYear := oneYearPattern.MatchString(text)
	threeYear := threeYearPattern.MatchString(text)

	if oneYear && !threeYear {
		return 1
	}
	return 3
}

package status

import (
	"fmt"

	"github.com/Naguroka/GenshinWidget/internal/hoyolab"
)

// Realm currency renders against a fixed display denominator
// regardless of the account's actual cap.
const realmCurrencyCap = 2400

// Snapshot is the latest display state: exactly three row texts. Each
// fetch replaces the previous snapshot wholesale; no history is kept.
type Snapshot struct {
	Resin    string
	CheckIn  string
	Currency string
}

// Rows returns the row texts in display order.
func (s Snapshot) Rows() [3]string {
	return [3]string{s.Resin, s.CheckIn, s.Currency}
}

// FromNote formats a successful fetch.
func FromNote(note *hoyolab.DailyNote) Snapshot {
	return Snapshot{
		Resin:    fmt.Sprintf("Resin: %d/%d", note.CurrentResin, note.MaxResin),
		CheckIn:  fmt.Sprintf("Daily Reward Claimed: %s", boolText(note.ClaimedCommissionReward)),
		Currency: fmt.Sprintf("Realm Currency: %d/%d", note.CurrentRealmCurrency, realmCurrencyCap),
	}
}

// FromAPIError formats an error reported by the API itself: the
// message takes the first row, the other two stay blank.
func FromAPIError(err *hoyolab.APIError) Snapshot {
	return Snapshot{Resin: "Error fetching notes: " + err.Error()}
}

// FromError formats any other failure.
func FromError(err error) Snapshot {
	return Snapshot{Resin: "Error fetching data: " + err.Error()}
}

// The claimed flag has always rendered capitalized; keep "True"/"False".
func boolText(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

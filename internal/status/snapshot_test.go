package status

import (
	"errors"
	"strings"
	"testing"

	"github.com/Naguroka/GenshinWidget/internal/hoyolab"
)

func TestFromNote(t *testing.T) {
	note := &hoyolab.DailyNote{
		CurrentResin:            30,
		MaxResin:                160,
		ClaimedCommissionReward: true,
		CurrentRealmCurrency:    1200,
		MaxRealmCurrency:        2400,
	}

	s := FromNote(note)

	if s.Resin != "Resin: 30/160" {
		t.Errorf("Expected 'Resin: 30/160', got %q", s.Resin)
	}
	if s.CheckIn != "Daily Reward Claimed: True" {
		t.Errorf("Expected 'Daily Reward Claimed: True', got %q", s.CheckIn)
	}
	if s.Currency != "Realm Currency: 1200/2400" {
		t.Errorf("Expected 'Realm Currency: 1200/2400', got %q", s.Currency)
	}
}

func TestFromNote_Unclaimed(t *testing.T) {
	s := FromNote(&hoyolab.DailyNote{CurrentResin: 159, MaxResin: 160})

	if s.CheckIn != "Daily Reward Claimed: False" {
		t.Errorf("Expected 'Daily Reward Claimed: False', got %q", s.CheckIn)
	}
}

func TestFromNote_CurrencyUsesFixedCap(t *testing.T) {
	// The display denominator stays 2400 even when the account cap
	// differs.
	s := FromNote(&hoyolab.DailyNote{CurrentRealmCurrency: 300, MaxRealmCurrency: 900})

	if s.Currency != "Realm Currency: 300/2400" {
		t.Errorf("Expected 'Realm Currency: 300/2400', got %q", s.Currency)
	}
}

func TestFromAPIError(t *testing.T) {
	apiErr := &hoyolab.APIError{Retcode: 10001, Message: "Please log in"}

	s := FromAPIError(apiErr)

	if !strings.HasPrefix(s.Resin, "Error fetching notes: ") {
		t.Errorf("Expected 'Error fetching notes: ' prefix, got %q", s.Resin)
	}
	if !strings.Contains(s.Resin, "Please log in") {
		t.Errorf("Expected error message in first row, got %q", s.Resin)
	}
	if s.CheckIn != "" || s.Currency != "" {
		t.Errorf("Expected blank second and third rows, got %q and %q", s.CheckIn, s.Currency)
	}

	rows := s.Rows()
	if len(rows) != 3 {
		t.Errorf("Expected 3 rows, got %d", len(rows))
	}
}

func TestFromError(t *testing.T) {
	s := FromError(errors.New("connection refused"))

	if s.Resin != "Error fetching data: connection refused" {
		t.Errorf("Expected generic error text, got %q", s.Resin)
	}
	if s.CheckIn != "" || s.Currency != "" {
		t.Errorf("Expected blank second and third rows, got %q and %q", s.CheckIn, s.Currency)
	}
}

func TestRows_Order(t *testing.T) {
	s := Snapshot{Resin: "a", CheckIn: "b", Currency: "c"}

	rows := s.Rows()
	if rows[0] != "a" || rows[1] != "b" || rows[2] != "c" {
		t.Errorf("Expected rows [a b c], got %v", rows)
	}
}

package domain

import (
	"errors"
	"strings"
	"testing"
)

func validSwap() *SwapRequest {
	return &SwapRequest{
		OwnerID:     "u1",
		CourseID:    "CS-18000",
		Term:        "Fall 2024",
		CurrentCRN:  "12345",
		DesiredCRNs: CRNList{"12346", "12347"},
	}
}

func TestValidateSwap(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*SwapRequest)
		field string
	}{
		{"ok", func(*SwapRequest) {}, ""},
		{"owner", func(s *SwapRequest) { s.OwnerID = " " }, "owner_id"},
		{"course", func(s *SwapRequest) { s.CourseID = "" }, "course_id"},
		{"term", func(s *SwapRequest) { s.Term = "" }, "term"},
		{"current short", func(s *SwapRequest) { s.CurrentCRN = "1234" }, "current_crn"},
		{"current alpha", func(s *SwapRequest) { s.CurrentCRN = "1234a" }, "current_crn"},
		{"no desired", func(s *SwapRequest) { s.DesiredCRNs = nil }, "desired_crns"},
		{"too many", func(s *SwapRequest) {
			s.DesiredCRNs = CRNList{"11111", "22222", "33333", "44444", "55555", "66666"}
		}, "desired_crns"},
		{"five ok", func(s *SwapRequest) {
			s.DesiredCRNs = CRNList{"11111", "22222", "33333", "44444", "55555"}
		}, ""},
		{"contains current", func(s *SwapRequest) { s.DesiredCRNs = CRNList{"12345"} }, "desired_crns"},
		{"duplicate", func(s *SwapRequest) { s.DesiredCRNs = CRNList{"11111", "11111"} }, "desired_crns"},
		{"bad desired", func(s *SwapRequest) { s.DesiredCRNs = CRNList{"abcde"} }, "desired_crns"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSwap()
			tc.mut(s)
			err := ValidateSwap(s)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected ValidationError on %q, got %v", tc.field, err)
			}
		})
	}
}

func TestValidateSwap_TrimsWhitespace(t *testing.T) {
	s := validSwap()
	s.CurrentCRN = " 12345 "
	s.DesiredCRNs = CRNList{" 12346"}
	if err := ValidateSwap(s); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.CurrentCRN != "12345" || s.DesiredCRNs[0] != "12346" {
		t.Fatalf("not trimmed: %+v", s)
	}
}

func TestValidateOffer(t *testing.T) {
	if err := ValidateOffer(&Offer{OffererID: "u2", OfferedCRN: "12346"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := ValidateOffer(&Offer{OffererID: "", OfferedCRN: "12346"}); err == nil {
		t.Fatalf("expected offerer error")
	}
	if err := ValidateOffer(&Offer{OffererID: "u2", OfferedCRN: "123"}); err == nil {
		t.Fatalf("expected crn error")
	}
}

func TestValidateMessageBody(t *testing.T) {
	if b, err := ValidateMessageBody("  hi  "); err != nil || b != "hi" {
		t.Fatalf("got %q, %v", b, err)
	}
	if _, err := ValidateMessageBody("   "); err == nil {
		t.Fatalf("expected empty error")
	}
	if _, err := ValidateMessageBody(strings.Repeat("é", MaxMessageRunes+1)); err == nil {
		t.Fatalf("expected too long error")
	}
	if _, err := ValidateMessageBody(strings.Repeat("é", MaxMessageRunes)); err != nil {
		t.Fatalf("exact limit should pass: %v", err)
	}
}

func TestValidateUser(t *testing.T) {
	if err := ValidateUser(&User{ID: "u1", Email: "a@purdue.edu", Name: "A"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, u := range []User{
		{ID: "", Email: "a@b.c", Name: "A"},
		{ID: "u1", Email: "nope", Name: "A"},
		{ID: "u1", Email: "a@b.c", Name: ""},
	} {
		u := u
		if err := ValidateUser(&u); err == nil {
			t.Fatalf("expected error for %+v", u)
		}
	}
}

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogNotifier_WritesStructuredEvent(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	n := LogNotifier{Logger: &l}

	n.Notify(context.Background(), Event{Op: "agree", Outcome: OutcomeSuccess, SwapID: "s1", OfferID: "o1", ActorID: "u1", Matched: true})
	out := buf.String()
	for _, want := range []string{`"op":"agree"`, `"outcome":"success"`, `"matched":true`, "Swap matched!"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line missing %s: %s", want, out)
		}
	}

	buf.Reset()
	n.Notify(context.Background(), Event{Op: "agree", Outcome: OutcomeTransient, Err: errors.New("db down")})
	if !strings.Contains(buf.String(), `"level":"warn"`) || !strings.Contains(buf.String(), "db down") {
		t.Fatalf("transient events should warn with the error: %s", buf.String())
	}
}

func TestEvent_Message(t *testing.T) {
	cases := []struct {
		ev   Event
		want string
	}{
		{Event{Op: "agree", Outcome: OutcomeSuccess}, "Agreement updated"},
		{Event{Op: "agree", Outcome: OutcomeSuccess, Matched: true}, "Swap matched! Emails have been revealed."},
		{Event{Op: "withdraw", Outcome: OutcomeSuccess}, "Offer withdrawn"},
		{Event{Op: "close", Outcome: OutcomeSuccess}, "Swap closed"},
		{Event{Op: "agree", Outcome: OutcomeTransient}, "Failed to update agreement"},
		{Event{Op: "agree", Outcome: OutcomeUnauthorized}, "You are not allowed to do that"},
	}
	for _, tc := range cases {
		if got := tc.ev.Message(); got != tc.want {
			t.Errorf("%+v: got %q, want %q", tc.ev, got, tc.want)
		}
	}
}

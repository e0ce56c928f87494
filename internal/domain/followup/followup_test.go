package followup

import (
	"testing"
	"time"

	"github.com/clinicdash/clinicdash/internal/domain/dates"
)

var today = dates.NewDate(2025, time.June, 10)

func TestClassify_CompletedIsTerminal(t *testing.T) {
	for _, d := range []dates.Date{today.AddDays(-30), today, today.AddDays(30)} {
		f := FollowUp{FollowupDate: d, Status: StatusCompleted}
		if got := Classify(f, today); got != Completed {
			t.Errorf("completed follow-up dated %s classified as %v", d, got)
		}
	}
}

func TestClassify_PendingByDate(t *testing.T) {
	cases := []struct {
		date dates.Date
		want Effective
	}{
		{today.AddDays(-1), Overdue},
		{today, Pending},
		{today.AddDays(1), Pending},
	}
	for _, tc := range cases {
		f := FollowUp{FollowupDate: tc.date, Status: StatusPending}
		if got := Classify(f, today); got != tc.want {
			t.Errorf("pending follow-up dated %s: expected %v, got %v", tc.date, tc.want, got)
		}
	}
}

func TestClassify_OverdueIsNotSticky(t *testing.T) {
	f := FollowUp{FollowupDate: today.AddDays(-1), Status: StatusPending}
	if Classify(f, today) != Overdue {
		t.Fatal("expected overdue yesterday-dated follow-up")
	}

	// Completing is the only transition out, and it wins over any date.
	f.Status = StatusCompleted
	f.FollowupDate = today.AddDays(10)
	if got := Classify(f, today); got != Completed {
		t.Errorf("expected completed after explicit completion, got %v", got)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("beklemede"); err != nil || s != StatusPending {
		t.Errorf("expected pending, got %v (%v)", s, err)
	}
	if s, err := ParseStatus("tamamlandı"); err != nil || s != StatusCompleted {
		t.Errorf("expected completed, got %v (%v)", s, err)
	}
	// Stored overdue collapses to pending; effective status is derived.
	if s, err := ParseStatus("gecikmiş"); err != nil || s != StatusPending {
		t.Errorf("expected stored overdue to decode as pending, got %v (%v)", s, err)
	}
	if _, err := ParseStatus("bitti"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestCount_Recomputes(t *testing.T) {
	list := []FollowUp{
		{FollowupDate: today.AddDays(-2), Status: StatusPending},
		{FollowupDate: today.AddDays(2), Status: StatusPending},
		{FollowupDate: today.AddDays(-2), Status: StatusCompleted},
	}

	got := Count(list, today)
	if got.Pending != 1 || got.Overdue != 1 || got.Completed != 1 {
		t.Fatalf("unexpected tally %+v", got)
	}

	list[0].Status = StatusCompleted
	got = Count(list, today)
	if got.Pending != 1 || got.Overdue != 0 || got.Completed != 2 {
		t.Errorf("tally not recomputed, got %+v", got)
	}
}

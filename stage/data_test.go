package stage_test

import (
	"testing"
	"time"

	"github.com/maisonhq/runway/stage"
)

func TestApplyMergesNotReplaces(t *testing.T) {
	var d stage.Data

	d.Apply(&stage.Event{Title: "Couture Week Showcase"})
	when := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	d.Apply(&stage.Event{StartsAt: &when})

	if d.Event == nil {
		t.Fatal("Event record not created")
	}
	if d.Event.Title != "Couture Week Showcase" {
		t.Errorf("Title = %q, want %q (second patch must not clear it)", d.Event.Title, "Couture Week Showcase")
	}
	if d.Event.StartsAt == nil || !d.Event.StartsAt.Equal(when) {
		t.Errorf("StartsAt = %v, want %v", d.Event.StartsAt, when)
	}
}

func TestApplyZeroFieldsLeaveExisting(t *testing.T) {
	var d stage.Data

	d.Apply(&stage.Organizer{Name: "Ava Laurent", Email: "ava@maison.example"})
	d.Apply(&stage.Organizer{Phone: "+33 1 42 00 00 00"})

	if d.Organizer.Name != "Ava Laurent" {
		t.Errorf("Name = %q, want unchanged", d.Organizer.Name)
	}
	if d.Organizer.Email != "ava@maison.example" {
		t.Errorf("Email = %q, want unchanged", d.Organizer.Email)
	}
	if d.Organizer.Phone != "+33 1 42 00 00 00" {
		t.Errorf("Phone = %q, want merged in", d.Organizer.Phone)
	}
}

func TestApplyReplacesSlicesWholesale(t *testing.T) {
	var d stage.Data

	d.Apply(&stage.Ticket{Tiers: []stage.Tier{{Name: "Front Row", PriceCents: 45000, Quantity: 20}}})
	d.Apply(&stage.Ticket{Tiers: []stage.Tier{
		{Name: "Front Row", PriceCents: 45000, Quantity: 20},
		{Name: "Standing", PriceCents: 9000, Quantity: 200},
	}})

	if len(d.Ticket.Tiers) != 2 {
		t.Fatalf("Tiers has %d entries, want 2 (slice patches replace)", len(d.Ticket.Tiers))
	}

	// A patch with no tier list leaves the tiers alone.
	d.Apply(&stage.Ticket{Currency: "EUR"})
	if len(d.Ticket.Tiers) != 2 {
		t.Errorf("Tiers has %d entries after currency patch, want 2", len(d.Ticket.Tiers))
	}
	if d.Ticket.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", d.Ticket.Currency)
	}
}

func TestApplyBoolPointer(t *testing.T) {
	var d stage.Data

	yes := true
	d.Apply(&stage.Review{TermsAccepted: &yes})
	d.Apply(&stage.Review{Notes: "ready for press"})

	if d.Review.TermsAccepted == nil || !*d.Review.TermsAccepted {
		t.Error("TermsAccepted lost by a later patch")
	}

	no := false
	d.Apply(&stage.Review{TermsAccepted: &no})
	if d.Review.TermsAccepted == nil || *d.Review.TermsAccepted {
		t.Error("explicit false did not override true")
	}
}

func TestPatchStageBinding(t *testing.T) {
	tests := []struct {
		patch stage.Patch
		want  stage.Stage
	}{
		{&stage.Organizer{}, stage.OrganizerSetup},
		{&stage.Event{}, stage.EventSetup},
		{&stage.Venue{}, stage.VenueSetup},
		{&stage.Ticket{}, stage.TicketSetup},
		{&stage.Sponsor{}, stage.SponsorsMedia},
		{&stage.Review{}, stage.ReviewPublish},
	}
	for _, tt := range tests {
		if got := tt.patch.Stage(); got != tt.want {
			t.Errorf("%T.Stage() = %q, want %q", tt.patch, got, tt.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	when := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	virtual := false

	var d stage.Data
	d.Apply(&stage.Event{Title: "Atelier Open Night", StartsAt: &when})
	d.Apply(&stage.Venue{Name: "Palais Garnier", Virtual: &virtual})
	d.Apply(&stage.Sponsor{MediaPartners: []string{"Vogue"}})

	cp := d.Clone()

	// Mutating the clone must not touch the original.
	cp.Event.Title = "changed"
	*cp.Event.StartsAt = when.Add(time.Hour)
	*cp.Venue.Virtual = true
	cp.Sponsor.MediaPartners[0] = "changed"

	if d.Event.Title != "Atelier Open Night" {
		t.Error("clone shares Event record with original")
	}
	if !d.Event.StartsAt.Equal(when) {
		t.Error("clone shares StartsAt pointer with original")
	}
	if *d.Venue.Virtual {
		t.Error("clone shares Virtual pointer with original")
	}
	if d.Sponsor.MediaPartners[0] != "Vogue" {
		t.Error("clone shares MediaPartners backing array with original")
	}
}

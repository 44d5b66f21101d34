package stage

import "time"

// Patch is a partial, stage-specific record. Each stage has its own record
// type; a record knows which stage it belongs to, so callers pass a patch
// and the stage is inferred. All fields are optional until the stage is
// completed: zero-valued fields in a patch leave the existing value alone
// (shallow merge, never replace).
type Patch interface {
	Stage() Stage
}

// Organizer is the OrganizerSetup record: who is running the event.
type Organizer struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role,omitempty"`
}

// Stage implements Patch.
func (*Organizer) Stage() Stage { return OrganizerSetup }

func (o *Organizer) merge(p *Organizer) {
	if p.Name != "" {
		o.Name = p.Name
	}
	if p.Email != "" {
		o.Email = p.Email
	}
	if p.Phone != "" {
		o.Phone = p.Phone
	}
	if p.Organization != "" {
		o.Organization = p.Organization
	}
	if p.Role != "" {
		o.Role = p.Role
	}
}

// Event is the EventSetup record: the core details of the event itself.
type Event struct {
	Title          string     `json:"title,omitempty"`
	Kind           string     `json:"kind,omitempty"` // runway_show, exhibition, popup, gala
	Description    string     `json:"description,omitempty"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	ExpectedGuests int        `json:"expected_guests,omitempty"`
}

// Stage implements Patch.
func (*Event) Stage() Stage { return EventSetup }

func (e *Event) merge(p *Event) {
	if p.Title != "" {
		e.Title = p.Title
	}
	if p.Kind != "" {
		e.Kind = p.Kind
	}
	if p.Description != "" {
		e.Description = p.Description
	}
	if p.StartsAt != nil {
		t := *p.StartsAt
		e.StartsAt = &t
	}
	if p.EndsAt != nil {
		t := *p.EndsAt
		e.EndsAt = &t
	}
	if p.ExpectedGuests != 0 {
		e.ExpectedGuests = p.ExpectedGuests
	}
}

// Venue is the VenueSetup record: the physical or virtual location.
type Venue struct {
	Name         string `json:"name,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	Country      string `json:"country,omitempty"`
	Capacity     int    `json:"capacity,omitempty"`
	Virtual      *bool  `json:"virtual,omitempty"`
	StreamingURL string `json:"streaming_url,omitempty"`
}

// Stage implements Patch.
func (*Venue) Stage() Stage { return VenueSetup }

func (v *Venue) merge(p *Venue) {
	if p.Name != "" {
		v.Name = p.Name
	}
	if p.Address != "" {
		v.Address = p.Address
	}
	if p.City != "" {
		v.City = p.City
	}
	if p.Country != "" {
		v.Country = p.Country
	}
	if p.Capacity != 0 {
		v.Capacity = p.Capacity
	}
	if p.Virtual != nil {
		b := *p.Virtual
		v.Virtual = &b
	}
	if p.StreamingURL != "" {
		v.StreamingURL = p.StreamingURL
	}
}

// Tier is a single ticket tier within the TicketSetup record.
type Tier struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
}

// Ticket is the TicketSetup record: tiers, currency, and sales window.
type Ticket struct {
	Tiers        []Tier     `json:"tiers,omitempty"`
	Currency     string     `json:"currency,omitempty"`
	SalesOpenAt  *time.Time `json:"sales_open_at,omitempty"`
	SalesCloseAt *time.Time `json:"sales_close_at,omitempty"`
}

// Stage implements Patch.
func (*Ticket) Stage() Stage { return TicketSetup }

func (t *Ticket) merge(p *Ticket) {
	if p.Tiers != nil {
		t.Tiers = append([]Tier(nil), p.Tiers...)
	}
	if p.Currency != "" {
		t.Currency = p.Currency
	}
	if p.SalesOpenAt != nil {
		ts := *p.SalesOpenAt
		t.SalesOpenAt = &ts
	}
	if p.SalesCloseAt != nil {
		ts := *p.SalesCloseAt
		t.SalesCloseAt = &ts
	}
}

// SponsorEntry is a single sponsor within the SponsorsMedia record.
type SponsorEntry struct {
	Name    string `json:"name"`
	Level   string `json:"level,omitempty"` // title, gold, silver, media
	LogoURL string `json:"logo_url,omitempty"`
}

// Sponsor is the SponsorsMedia record: sponsors and media assets.
type Sponsor struct {
	Sponsors      []SponsorEntry `json:"sponsors,omitempty"`
	MediaPartners []string       `json:"media_partners,omitempty"`
	PressKitURL   string         `json:"press_kit_url,omitempty"`
	CoverImageURL string         `json:"cover_image_url,omitempty"`
}

// Stage implements Patch.
func (*Sponsor) Stage() Stage { return SponsorsMedia }

func (s *Sponsor) merge(p *Sponsor) {
	if p.Sponsors != nil {
		s.Sponsors = append([]SponsorEntry(nil), p.Sponsors...)
	}
	if p.MediaPartners != nil {
		s.MediaPartners = append([]string(nil), p.MediaPartners...)
	}
	if p.PressKitURL != "" {
		s.PressKitURL = p.PressKitURL
	}
	if p.CoverImageURL != "" {
		s.CoverImageURL = p.CoverImageURL
	}
}

// Review is the ReviewPublish record: final confirmation fields.
type Review struct {
	TermsAccepted *bool  `json:"terms_accepted,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Stage implements Patch.
func (*Review) Stage() Stage { return ReviewPublish }

func (r *Review) merge(p *Review) {
	if p.TermsAccepted != nil {
		b := *p.TermsAccepted
		r.TermsAccepted = &b
	}
	if p.Notes != "" {
		r.Notes = p.Notes
	}
}

// Data holds the six per-stage records of a wizard session. A nil record
// means the stage has no data yet.
type Data struct {
	Organizer *Organizer `json:"organizer,omitempty"`
	Event     *Event     `json:"event,omitempty"`
	Venue     *Venue     `json:"venue,omitempty"`
	Ticket    *Ticket    `json:"ticket,omitempty"`
	Sponsor   *Sponsor   `json:"sponsor,omitempty"`
	Review    *Review    `json:"review,omitempty"`
}

// Apply shallow-merges the patch into the record for its stage, creating
// the record if it does not exist yet. Unknown patch types are ignored.
func (d *Data) Apply(p Patch) {
	switch v := p.(type) {
	case *Organizer:
		if d.Organizer == nil {
			d.Organizer = &Organizer{}
		}
		d.Organizer.merge(v)
	case *Event:
		if d.Event == nil {
			d.Event = &Event{}
		}
		d.Event.merge(v)
	case *Venue:
		if d.Venue == nil {
			d.Venue = &Venue{}
		}
		d.Venue.merge(v)
	case *Ticket:
		if d.Ticket == nil {
			d.Ticket = &Ticket{}
		}
		d.Ticket.merge(v)
	case *Sponsor:
		if d.Sponsor == nil {
			d.Sponsor = &Sponsor{}
		}
		d.Sponsor.merge(v)
	case *Review:
		if d.Review == nil {
			d.Review = &Review{}
		}
		d.Review.merge(v)
	}
}

// Clone returns a deep copy of the data, so snapshots handed to persistence
// never alias the live session.
func (d Data) Clone() Data {
	out := Data{}
	if d.Organizer != nil {
		cp := *d.Organizer
		out.Organizer = &cp
	}
	if d.Event != nil {
		cp := *d.Event
		if d.Event.StartsAt != nil {
			t := *d.Event.StartsAt
			cp.StartsAt = &t
		}
		if d.Event.EndsAt != nil {
			t := *d.Event.EndsAt
			cp.EndsAt = &t
		}
		out.Event = &cp
	}
	if d.Venue != nil {
		cp := *d.Venue
		if d.Venue.Virtual != nil {
			b := *d.Venue.Virtual
			cp.Virtual = &b
		}
		out.Venue = &cp
	}
	if d.Ticket != nil {
		cp := *d.Ticket
		cp.Tiers = append([]Tier(nil), d.Ticket.Tiers...)
		if d.Ticket.SalesOpenAt != nil {
			t := *d.Ticket.SalesOpenAt
			cp.SalesOpenAt = &t
		}
		if d.Ticket.SalesCloseAt != nil {
			t := *d.Ticket.SalesCloseAt
			cp.SalesCloseAt = &t
		}
		out.Ticket = &cp
	}
	if d.Sponsor != nil {
		cp := *d.Sponsor
		cp.Sponsors = append([]SponsorEntry(nil), d.Sponsor.Sponsors...)
		cp.MediaPartners = append([]string(nil), d.Sponsor.MediaPartners...)
		out.Sponsor = &cp
	}
	if d.Review != nil {
		cp := *d.Review
		if d.Review.TermsAccepted != nil {
			b := *d.Review.TermsAccepted
			cp.TermsAccepted = &b
		}
		out.Review = &cp
	}
	return out
}

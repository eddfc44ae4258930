package webhooks

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"
)

// Wire enumerations. These are open string types rather than validated closed
// sets: Memberful adds values over time and an unrecognized value must not
// fail parsing.

// SignupMethod describes how a member account was created.
type SignupMethod string

const (
	SignupMethodCheckout SignupMethod = "checkout"
	SignupMethodManual   SignupMethod = "manual"
	SignupMethodAPI      SignupMethod = "api"
	SignupMethodImport   SignupMethod = "import"
)

// OrderStatus describes the state of an order.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusSuspended OrderStatus = "suspended"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// RenewalPeriod describes how often a plan renews.
type RenewalPeriod string

const (
	RenewalPeriodMonthly   RenewalPeriod = "monthly"
	RenewalPeriodYearly    RenewalPeriod = "yearly"
	RenewalPeriodQuarterly RenewalPeriod = "quarterly"
	RenewalPeriodWeekly    RenewalPeriod = "weekly"
)

// IntervalUnit is the unit of a plan's billing interval.
type IntervalUnit string

const (
	IntervalUnitMonth   IntervalUnit = "month"
	IntervalUnitYear    IntervalUnit = "year"
	IntervalUnitQuarter IntervalUnit = "quarter"
	IntervalUnitWeek    IntervalUnit = "week"
	IntervalUnitDay     IntervalUnit = "day"
)

// Address is a member's postal address.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`

	extra map[string]json.RawMessage
}

// Extras returns any wire fields not modeled by this record.
func (a *Address) Extras() map[string]json.RawMessage { return a.extra }

func (a *Address) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	type plain Address
	if err := unmarshalKnown(data, (*plain)(a)); err != nil {
		return err
	}
	a.extra = obj.extras(reflect.TypeOf(*a))
	return nil
}

// CreditCard is the card on file for a member. Only non-sensitive summary
// fields are ever delivered.
type CreditCard struct {
	ExpMonth int    `json:"exp_month,omitempty"`
	ExpYear  int    `json:"exp_year,omitempty"`
	LastFour string `json:"last_four,omitempty"`
	Brand    string `json:"brand,omitempty"`

	extra map[string]json.RawMessage
}

// Extras returns any wire fields not modeled by this record.
func (c *CreditCard) Extras() map[string]json.RawMessage { return c.extra }

func (c *CreditCard) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	type plain CreditCard
	if err := unmarshalKnown(data, (*plain)(c)); err != nil {
		return err
	}
	c.extra = obj.extras(reflect.TypeOf(*c))
	return nil
}

// TrackingParams carries the UTM parameters captured at signup.
type TrackingParams struct {
	UTMTerm     string `json:"utm_term,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMSource   string `json:"utm_source,omitempty"`
	UTMContent  string `json:"utm_content,omitempty"`

	extra map[string]json.RawMessage
}

// Extras returns any wire fields not modeled by this record.
func (t *TrackingParams) Extras() map[string]json.RawMessage { return t.extra }

func (t *TrackingParams) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	type plain TrackingParams
	if err := unmarshalKnown(data, (*plain)(t)); err != nil {
		return err
	}
	t.extra = obj.extras(reflect.TypeOf(*t))
	return nil
}

// SubscriptionPlan describes a plan a member can subscribe to. Plan events
// ("subscription_plan.*") deliver it as their payload; it also appears nested
// in subscription records.
type SubscriptionPlan struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Price         int64         `json:"price,omitempty"`       // smallest currency unit
	PriceCents    int64         `json:"price_cents,omitempty"` // alternate wire name for Price
	RenewalPeriod RenewalPeriod `json:"renewal_period,omitempty"`
	IntervalUnit  IntervalUnit  `json:"interval_unit,omitempty"`
	IntervalCount int           `json:"interval_count,omitempty"`
	ForSale       bool          `json:"for_sale"`
	Type          string        `json:"type,omitempty"`

	extra map[string]json.RawMessage
}

// Extras returns any wire fields not modeled by this record.
func (p *SubscriptionPlan) Extras() map[string]json.RawMessage { return p.extra }

func (p *SubscriptionPlan) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.require("id", "name", "slug"); err != nil {
		return err
	}
	// Wire defaults: plans are for sale and renew every single interval
	// unless the payload says otherwise.
	p.ForSale = true
	p.IntervalCount = 1
	type plain SubscriptionPlan
	if err := unmarshalKnown(data, (*plain)(p)); err != nil {
		return err
	}
	p.extra = obj.extras(reflect.TypeOf(*p))
	return nil
}

// Member is a full member record. Member-family timestamps are Unix epoch
// seconds on the wire, unlike subscription events which use ISO-8601 strings.
type Member struct {
	ID                 int64           `json:"id"`
	Email              string          `json:"email"`
	FirstName          string          `json:"first_name,omitempty"`
	LastName           string          `json:"last_name,omitempty"`
	FullName           string          `json:"full_name,omitempty"`
	Username           string          `json:"username,omitempty"`
	PhoneNumber        string          `json:"phone_number,omitempty"`
	CreatedAt          int64           `json:"created_at"` // Unix epoch seconds
	SignupMethod       SignupMethod    `json:"signup_method,omitempty"`
	StripeCustomerID   string          `json:"stripe_customer_id,omitempty"`
	DiscordUserID      string          `json:"discord_user_id,omitempty"`
	UnrestrictedAccess bool            `json:"unrestricted_access,omitempty"`
	Address            *Address        `json:"address,omitempty"`
	CreditCard         *CreditCard     `json:"credit_card,omitempty"`
	TrackingParams     *TrackingParams `json:"tracking_params,omitempty"`
	CustomField        json.RawMessage `json:"custom_field,omitempty"` // site-defined, any JSON shape

	extra map[string]json.RawMessage
}

// Extras returns any wire fields not modeled by this record.
func (m *Member) Extras() map[string]json.RawMessage { return m.extra }

// Created returns the member's creation time.
func (m *Member) Created() time.Time { return time.Unix(m.CreatedAt, 0).UTC() }

func (m *Member) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.require("id", "email", "created_at"); err != nil {
		return err
	}
	type plain Member
	aux := struct {
		*plain
		Address        json.RawMessage `json:"address"`
		CreditCard     json.RawMessage `json:"credit_card"`
		TrackingParams json.RawMessage `json:"tracking_params"`
	}{plain: (*plain)(m)}
	if err := unmarshalKnown(data, &aux); err != nil {
		return err
	}
	if err := decodeOptionalField(aux.Address, "address", &m.Address); err != nil {
		return err
	}
	if err := decodeOptionalField(aux.CreditCard, "credit_card", &m.CreditCard); err != nil {
		return err
	}
	if err := decodeOptionalField(aux.TrackingParams, "tracking_params", &m.TrackingParams); err != nil {
		return err
	}
	m.extra = obj.extras(reflect.TypeOf(*m))
	return nil
}

// DeletedMember is the reduced member record carried by member.deleted
// events. The full member data is gone by the time the event fires, so only
// the identifier survives; this is the one variant allowed a smaller shape.
type DeletedMember struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`

	extra map[string]json.RawMessage
}

// Extras returns any wire fields not modeled by this record.
func (m *DeletedMember) Extras() map[string]json.RawMessage { return m.extra }

func (m *DeletedMember) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.require("id"); err != nil {
		return err
	}
	m.Deleted = true
	type plain DeletedMember
	if err := unmarshalKnown(data, (*plain)(m)); err != nil {
		return err
	}
	m.extra = obj.extras(reflect.TypeOf(*m))
	return nil
}

// MemberSubscription is a subscription as nested inside member and order
// records. Its timestamps are Unix epoch seconds and its plan travels under
// the wire key "subscription".
type MemberSubscription struct {
	ID            int64            `json:"id"`
	Active        bool             `json:"active"`
	CreatedAt     int64            `json:"created_at"` // Unix epoch seconds
	Expires       bool             `json:"expires"`
	ExpiresAt     int64            `json:"expires_at,omitempty"` // Unix epoch seconds
	InTrialPeriod bool             `json:"in_trial_period,omitempty"`
	Plan          SubscriptionPlan `json:"subscription"`
	TrialStartAt  int64            `json:"trial_start_at,omitempty"` // Unix epoch seconds
	TrialEndAt    int64            `json:"trial_end_at,omitempty"`   // Unix epoch seconds

	extra map[string]json.RawMessage
}

// Extras returns any wire fields not modeled by this record.
func (s *MemberSubscription) Extras() map[string]json.RawMessage { return s.extra }

func (s *MemberSubscription) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.require("id", "active", "created_at", "expires", "subscription"); err != nil {
		return err
	}
	type plain MemberSubscription
	aux := struct {
		*plain
		Plan json.RawMessage `json:"subscription"`
	}{plain: (*plain)(s)}
	if err := unmarshalKnown(data, &aux); err != nil {
		return err
	}
	if err := decodeField(aux.Plan, "subscription", &s.Plan); err != nil {
		return err
	}
	s.extra = obj.extras(reflect.TypeOf(*s))
	return nil
}

// Subscription is the payload record of the subscription.* event family.
// Unlike member-family records, its timestamps are ISO-8601 strings on the
// wire; the native representation is preserved rather than coerced.
type Subscription struct {
	ID           int64            `json:"id"`
	Active       bool             `json:"active"`
	Autorenew    bool             `json:"autorenew"`
	CreatedAt    string           `json:"created_at"` // ISO-8601
	ExpiresAt    string           `json:"expires_at"` // ISO-8601
	Member       Member           `json:"member"`
	Plan         SubscriptionPlan `json:"subscription_plan"`
	TrialStartAt string           `json:"trial_start_at,omitempty"` // ISO-8601
	TrialEndAt   string           `json:"trial_end_at,omitempty"`   // ISO-8601

	extra map[string]json.RawMessage
}

// Extras returns any wire fields not modeled by this record.
func (s *Subscription) Extras() map[string]json.RawMessage { return s.extra }

func (s *Subscription) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.require("id", "active", "autorenew", "created_at", "expires_at", "member", "subscription_plan"); err != nil {
		return err
	}
	type plain Subscription
	aux := struct {
		*plain
		Member json.RawMessage `json:"member"`
		Plan   json.RawMessage `json:"subscription_plan"`
	}{plain: (*plain)(s)}
	if err := unmarshalKnown(data, &aux); err != nil {
		return err
	}
	if err := decodeField(aux.Member, "member", &s.Member); err != nil {
		return err
	}
	if err := decodeField(aux.Plan, "subscription_plan", &s.Plan); err != nil {
		return err
	}
	s.extra = obj.extras(reflect.TypeOf(*s))
	return nil
}

// Product is a download (digital product) record.
type Product struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Price   int64  `json:"price"` // smallest currency unit
	Slug    string `json:"slug"`
	ForSale bool   `json:"for_sale"`

	extra map[string]json.RawMessage
}

// Extras returns any wire fields not modeled by this record.
func (p *Product) Extras() map[string]json.RawMessage { return p.extra }

func (p *Product) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.require("id", "name", "price", "slug"); err != nil {
		return err
	}
	p.ForSale = true
	type plain Product
	if err := unmarshalKnown(data, (*plain)(p)); err != nil {
		return err
	}
	p.extra = obj.extras(reflect.TypeOf(*p))
	return nil
}

// OrderTime holds an order timestamp. Orders are the one family whose
// created_at is delivered either as Unix epoch seconds or as an ISO-8601
// string depending on context, so both shapes are accepted and the native
// one is preserved.
type OrderTime struct {
	epoch   int64
	iso     string
	isEpoch bool
	set     bool
}

// IsZero reports whether the timestamp was absent from the payload.
func (t OrderTime) IsZero() bool { return !t.set }

// Epoch returns the Unix timestamp and true when the wire value was numeric.
func (t OrderTime) Epoch() (int64, bool) { return t.epoch, t.set && t.isEpoch }

// ISO returns the ISO-8601 string and true when the wire value was a string.
func (t OrderTime) ISO() (string, bool) { return t.iso, t.set && !t.isEpoch }

// Time resolves either representation to a time.Time.
func (t OrderTime) Time() (time.Time, error) {
	if !t.set {
		return time.Time{}, nil
	}
	if t.isEpoch {
		return time.Unix(t.epoch, 0).UTC(), nil
	}
	return time.Parse(time.RFC3339, t.iso)
}

func (t *OrderTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		*t = OrderTime{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &SchemaError{Reason: "must be a Unix timestamp or an ISO-8601 string"}
		}
		*t = OrderTime{iso: s, set: true}
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return &SchemaError{Reason: "must be a Unix timestamp or an ISO-8601 string"}
	}
	*t = OrderTime{epoch: n, isEpoch: true, set: true}
	return nil
}

func (t OrderTime) MarshalJSON() ([]byte, error) {
	switch {
	case !t.set:
		return nullLiteral, nil
	case t.isEpoch:
		return json.Marshal(t.epoch)
	default:
		return json.Marshal(t.iso)
	}
}

// Order is the payload record of the order.* event family.
type Order struct {
	UUID          string               `json:"uuid"`
	Number        string               `json:"number,omitempty"`
	Total         int64                `json:"total"` // smallest currency unit
	Status        OrderStatus          `json:"status"`
	Receipt       string               `json:"receipt,omitempty"`
	CreatedAt     OrderTime            `json:"created_at,omitempty"`
	Member        *Member              `json:"member,omitempty"`
	Products      []Product            `json:"products,omitempty"`
	Subscriptions []MemberSubscription `json:"subscriptions,omitempty"`

	extra map[string]json.RawMessage
}

// Extras returns any wire fields not modeled by this record.
func (o *Order) Extras() map[string]json.RawMessage { return o.extra }

func (o *Order) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return err
	}
	if err := obj.require("uuid", "total", "status"); err != nil {
		return err
	}
	type plain Order
	aux := struct {
		*plain
		CreatedAt     json.RawMessage `json:"created_at"`
		Member        json.RawMessage `json:"member"`
		Products      json.RawMessage `json:"products"`
		Subscriptions json.RawMessage `json:"subscriptions"`
	}{plain: (*plain)(o)}
	if err := unmarshalKnown(data, &aux); err != nil {
		return err
	}
	if err := decodeOptionalField(aux.CreatedAt, "created_at", &o.CreatedAt); err != nil {
		return err
	}
	if err := decodeOptionalField(aux.Member, "member", &o.Member); err != nil {
		return err
	}
	if err := decodeList(aux.Products, "products", &o.Products); err != nil {
		return err
	}
	if err := decodeList(aux.Subscriptions, "subscriptions", &o.Subscriptions); err != nil {
		return err
	}
	o.extra = obj.extras(reflect.TypeOf(*o))
	return nil
}

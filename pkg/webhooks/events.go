package webhooks

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Wire event-type strings, exactly as Memberful delivers them. The vendor
// mixes snake_case and dot-separated names; the literals are matched as-is,
// never normalized.
const (
	EventMemberSignup            = "member_signup"
	EventMemberUpdated           = "member_updated"
	EventMemberDeleted           = "member.deleted"
	EventSubscriptionCreated     = "subscription.created"
	EventSubscriptionUpdated     = "subscription.updated"
	EventSubscriptionActivated   = "subscription.activated"
	EventSubscriptionDeactivated = "subscription.deactivated"
	EventSubscriptionDeleted     = "subscription.deleted"
	EventSubscriptionRenewed     = "subscription.renewed"
	EventOrderPurchased          = "order.purchased"
	EventOrderRefunded           = "order.refunded"
	EventOrderCompleted          = "order.completed"
	EventOrderSuspended          = "order.suspended"
	EventPlanCreated             = "subscription_plan.created"
	EventPlanUpdated             = "subscription_plan.updated"
	EventPlanDeleted             = "subscription_plan.deleted"
	EventDownloadCreated         = "download.created"
	EventDownloadUpdated         = "download.updated"
	EventDownloadDeleted         = "download.deleted"
)

// Event is the closed union of Memberful webhook events. Every value is one
// of the concrete *...Event types in this package; switch on the concrete
// type to handle a specific family, or on EventType() for the wire string.
//
// An Event is constructed once per inbound delivery from the verified raw
// payload and is not mutated afterwards.
type Event interface {
	// EventType returns the literal wire event-type string.
	EventType() string

	// Extras returns top-level payload fields not modeled by the variant.
	Extras() map[string]json.RawMessage

	webhookEvent()
}

// decodeEnvelope validates the event tag and decodes the variant's primary
// payload record. The returned raw object lets variants pick up secondary
// fields (changed sets, renewal orders) and compute extras.
func decodeEnvelope(data []byte, want, payloadKey string, payload any) (rawObject, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	if err := obj.require("event", payloadKey); err != nil {
		return nil, err
	}
	var tag string
	if err := json.Unmarshal(obj["event"], &tag); err != nil {
		return nil, &SchemaError{Field: "event", Reason: "must be a string"}
	}
	if tag != want {
		return nil, &SchemaError{Field: "event", Reason: fmt.Sprintf("must be %q", want)}
	}
	if err := decodeField(obj[payloadKey], payloadKey, payload); err != nil {
		return nil, err
	}
	return obj, nil
}

// MemberSignupEvent fires when a new member account is created.
type MemberSignupEvent struct {
	Event  string `json:"event"`
	Member Member `json:"member"`

	extra map[string]json.RawMessage
}

func (e *MemberSignupEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *MemberSignupEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *MemberSignupEvent) webhookEvent()                      {}

func (e *MemberSignupEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventMemberSignup, "member", &e.Member)
	if err != nil {
		return err
	}
	e.Event = EventMemberSignup
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// MemberUpdatedEvent fires when a member's profile is updated. Changed holds
// the per-field [old, new] pairs when Memberful tracked them.
type MemberUpdatedEvent struct {
	Event   string    `json:"event"`
	Member  Member    `json:"member"`
	Changed ChangeSet `json:"changed,omitempty"`

	extra map[string]json.RawMessage
}

func (e *MemberUpdatedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *MemberUpdatedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *MemberUpdatedEvent) webhookEvent()                      {}

func (e *MemberUpdatedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventMemberUpdated, "member", &e.Member)
	if err != nil {
		return err
	}
	if err := decodeOptionalField(obj["changed"], "changed", &e.Changed); err != nil {
		return err
	}
	e.Event = EventMemberUpdated
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// MemberDeletedEvent fires when a member is deleted. It carries only the
// reduced DeletedMember record; the full member data no longer exists.
type MemberDeletedEvent struct {
	Event  string        `json:"event"`
	Member DeletedMember `json:"member"`

	extra map[string]json.RawMessage
}

func (e *MemberDeletedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *MemberDeletedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *MemberDeletedEvent) webhookEvent()                      {}

func (e *MemberDeletedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventMemberDeleted, "member", &e.Member)
	if err != nil {
		return err
	}
	e.Event = EventMemberDeleted
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// SubscriptionCreatedEvent fires when a subscription is added to a member's
// account: a purchase, a gift activation, a group addition, or manual staff
// creation.
type SubscriptionCreatedEvent struct {
	Event        string       `json:"event"`
	Subscription Subscription `json:"subscription"`

	extra map[string]json.RawMessage
}

func (e *SubscriptionCreatedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *SubscriptionCreatedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *SubscriptionCreatedEvent) webhookEvent()                      {}

func (e *SubscriptionCreatedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventSubscriptionCreated, "subscription", &e.Subscription)
	if err != nil {
		return err
	}
	e.Event = EventSubscriptionCreated
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// SubscriptionUpdatedEvent fires when a subscription changes. A plan change
// shows up as Changed["plan_id"]; a deferred downgrade arrives with an empty
// change-set.
type SubscriptionUpdatedEvent struct {
	Event        string       `json:"event"`
	Subscription Subscription `json:"subscription"`
	Changed      ChangeSet    `json:"changed,omitempty"`

	extra map[string]json.RawMessage
}

func (e *SubscriptionUpdatedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *SubscriptionUpdatedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *SubscriptionUpdatedEvent) webhookEvent()                      {}

func (e *SubscriptionUpdatedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventSubscriptionUpdated, "subscription", &e.Subscription)
	if err != nil {
		return err
	}
	if err := decodeOptionalField(obj["changed"], "changed", &e.Changed); err != nil {
		return err
	}
	e.Event = EventSubscriptionUpdated
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// SubscriptionActivatedEvent fires when a suspended order is completed by
// staff and the subscription becomes active again.
type SubscriptionActivatedEvent struct {
	Event        string       `json:"event"`
	Subscription Subscription `json:"subscription"`

	extra map[string]json.RawMessage
}

func (e *SubscriptionActivatedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *SubscriptionActivatedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *SubscriptionActivatedEvent) webhookEvent()                      {}

func (e *SubscriptionActivatedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventSubscriptionActivated, "subscription", &e.Subscription)
	if err != nil {
		return err
	}
	e.Event = EventSubscriptionActivated
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// SubscriptionDeactivatedEvent fires when a subscription fails to renew,
// expires, or is made inactive by a staff-suspended order.
type SubscriptionDeactivatedEvent struct {
	Event        string       `json:"event"`
	Subscription Subscription `json:"subscription"`

	extra map[string]json.RawMessage
}

func (e *SubscriptionDeactivatedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *SubscriptionDeactivatedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *SubscriptionDeactivatedEvent) webhookEvent()                      {}

func (e *SubscriptionDeactivatedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventSubscriptionDeactivated, "subscription", &e.Subscription)
	if err != nil {
		return err
	}
	e.Event = EventSubscriptionDeactivated
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// SubscriptionDeletedEvent fires when staff delete a member's subscription
// from the dashboard.
type SubscriptionDeletedEvent struct {
	Event        string       `json:"event"`
	Subscription Subscription `json:"subscription"`

	extra map[string]json.RawMessage
}

func (e *SubscriptionDeletedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *SubscriptionDeletedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *SubscriptionDeletedEvent) webhookEvent()                      {}

func (e *SubscriptionDeletedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventSubscriptionDeleted, "subscription", &e.Subscription)
	if err != nil {
		return err
	}
	e.Event = EventSubscriptionDeleted
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// SubscriptionRenewedEvent fires when a subscription renews or a returning
// member reactivates an old one. The renewal order rides along; the payload
// does not distinguish renewal from reactivation.
type SubscriptionRenewedEvent struct {
	Event        string       `json:"event"`
	Subscription Subscription `json:"subscription"`
	Order        Order        `json:"order"`

	extra map[string]json.RawMessage
}

func (e *SubscriptionRenewedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *SubscriptionRenewedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *SubscriptionRenewedEvent) webhookEvent()                      {}

func (e *SubscriptionRenewedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventSubscriptionRenewed, "subscription", &e.Subscription)
	if err != nil {
		return err
	}
	if err := obj.require("order"); err != nil {
		return err
	}
	if err := decodeField(obj["order"], "order", &e.Order); err != nil {
		return err
	}
	e.Event = EventSubscriptionRenewed
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// OrderPurchasedEvent fires when a member places an order or staff add one
// manually. Renewal payments do not trigger it; gift purchases do, though no
// subscription exists until the recipient activates the gift.
type OrderPurchasedEvent struct {
	Event string `json:"event"`
	Order Order  `json:"order"`

	extra map[string]json.RawMessage
}

func (e *OrderPurchasedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *OrderPurchasedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *OrderPurchasedEvent) webhookEvent()                      {}

func (e *OrderPurchasedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventOrderPurchased, "order", &e.Order)
	if err != nil {
		return err
	}
	e.Event = EventOrderPurchased
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// OrderRefundedEvent fires when staff refund an order.
type OrderRefundedEvent struct {
	Event string `json:"event"`
	Order Order  `json:"order"`

	extra map[string]json.RawMessage
}

func (e *OrderRefundedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *OrderRefundedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *OrderRefundedEvent) webhookEvent()                      {}

func (e *OrderRefundedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventOrderRefunded, "order", &e.Order)
	if err != nil {
		return err
	}
	e.Event = EventOrderRefunded
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// OrderCompletedEvent fires when a suspended order is marked completed by
// staff.
type OrderCompletedEvent struct {
	Event string `json:"event"`
	Order Order  `json:"order"`

	extra map[string]json.RawMessage
}

func (e *OrderCompletedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *OrderCompletedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *OrderCompletedEvent) webhookEvent()                      {}

func (e *OrderCompletedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventOrderCompleted, "order", &e.Order)
	if err != nil {
		return err
	}
	e.Event = EventOrderCompleted
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// OrderSuspendedEvent fires when an order is suspended by staff.
type OrderSuspendedEvent struct {
	Event string `json:"event"`
	Order Order  `json:"order"`

	extra map[string]json.RawMessage
}

func (e *OrderSuspendedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *OrderSuspendedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *OrderSuspendedEvent) webhookEvent()                      {}

func (e *OrderSuspendedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventOrderSuspended, "order", &e.Order)
	if err != nil {
		return err
	}
	e.Event = EventOrderSuspended
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// PlanCreatedEvent fires when a new plan is created. Plan events deliver
// their payload under the wire key "subscription", a vendor quirk preserved
// as-is.
type PlanCreatedEvent struct {
	Event string           `json:"event"`
	Plan  SubscriptionPlan `json:"subscription"`

	extra map[string]json.RawMessage
}

func (e *PlanCreatedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *PlanCreatedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *PlanCreatedEvent) webhookEvent()                      {}

func (e *PlanCreatedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventPlanCreated, "subscription", &e.Plan)
	if err != nil {
		return err
	}
	e.Event = EventPlanCreated
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// PlanUpdatedEvent fires when a plan is updated.
type PlanUpdatedEvent struct {
	Event string           `json:"event"`
	Plan  SubscriptionPlan `json:"subscription"`

	extra map[string]json.RawMessage
}

func (e *PlanUpdatedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *PlanUpdatedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *PlanUpdatedEvent) webhookEvent()                      {}

func (e *PlanUpdatedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventPlanUpdated, "subscription", &e.Plan)
	if err != nil {
		return err
	}
	e.Event = EventPlanUpdated
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// PlanDeletedEvent fires when a plan is deleted.
type PlanDeletedEvent struct {
	Event string           `json:"event"`
	Plan  SubscriptionPlan `json:"subscription"`

	extra map[string]json.RawMessage
}

func (e *PlanDeletedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *PlanDeletedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *PlanDeletedEvent) webhookEvent()                      {}

func (e *PlanDeletedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventPlanDeleted, "subscription", &e.Plan)
	if err != nil {
		return err
	}
	e.Event = EventPlanDeleted
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// DownloadCreatedEvent fires when a download is created.
type DownloadCreatedEvent struct {
	Event   string  `json:"event"`
	Product Product `json:"product"`

	extra map[string]json.RawMessage
}

func (e *DownloadCreatedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *DownloadCreatedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *DownloadCreatedEvent) webhookEvent()                      {}

func (e *DownloadCreatedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventDownloadCreated, "product", &e.Product)
	if err != nil {
		return err
	}
	e.Event = EventDownloadCreated
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// DownloadUpdatedEvent fires when a download is updated.
type DownloadUpdatedEvent struct {
	Event   string  `json:"event"`
	Product Product `json:"product"`

	extra map[string]json.RawMessage
}

func (e *DownloadUpdatedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *DownloadUpdatedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *DownloadUpdatedEvent) webhookEvent()                      {}

func (e *DownloadUpdatedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventDownloadUpdated, "product", &e.Product)
	if err != nil {
		return err
	}
	e.Event = EventDownloadUpdated
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

// DownloadDeletedEvent fires when a download is deleted.
type DownloadDeletedEvent struct {
	Event   string  `json:"event"`
	Product Product `json:"product"`

	extra map[string]json.RawMessage
}

func (e *DownloadDeletedEvent) EventType() string { return e.Event }

// Extras returns top-level payload fields not modeled by this variant.
func (e *DownloadDeletedEvent) Extras() map[string]json.RawMessage { return e.extra }
func (e *DownloadDeletedEvent) webhookEvent()                      {}

func (e *DownloadDeletedEvent) UnmarshalJSON(data []byte) error {
	obj, err := decodeEnvelope(data, EventDownloadDeleted, "product", &e.Product)
	if err != nil {
		return err
	}
	e.Event = EventDownloadDeleted
	e.extra = obj.extras(reflect.TypeOf(*e))
	return nil
}

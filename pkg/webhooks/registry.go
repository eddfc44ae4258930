package webhooks

import (
	"fmt"
	"sort"
)

// registry is the single source of truth mapping wire event-type strings to
// variant constructors. Lookups are exact, case-sensitive string matches:
// the vendor mixes snake_case and dot.separated names and the literals are
// stored as delivered.
var registry = make(map[string]func() Event)

// register installs a variant constructor. A duplicate key is a programming
// error in this package, caught at init time, never at request time.
func register(eventType string, newEvent func() Event) {
	if _, dup := registry[eventType]; dup {
		panic(fmt.Sprintf("webhooks: duplicate registration for event type %q", eventType))
	}
	registry[eventType] = newEvent
}

func init() {
	register(EventMemberSignup, func() Event { return &MemberSignupEvent{} })
	register(EventMemberUpdated, func() Event { return &MemberUpdatedEvent{} })
	register(EventMemberDeleted, func() Event { return &MemberDeletedEvent{} })
	register(EventSubscriptionCreated, func() Event { return &SubscriptionCreatedEvent{} })
	register(EventSubscriptionUpdated, func() Event { return &SubscriptionUpdatedEvent{} })
	register(EventSubscriptionActivated, func() Event { return &SubscriptionActivatedEvent{} })
	register(EventSubscriptionDeactivated, func() Event { return &SubscriptionDeactivatedEvent{} })
	register(EventSubscriptionDeleted, func() Event { return &SubscriptionDeletedEvent{} })
	register(EventSubscriptionRenewed, func() Event { return &SubscriptionRenewedEvent{} })
	register(EventOrderPurchased, func() Event { return &OrderPurchasedEvent{} })
	register(EventOrderRefunded, func() Event { return &OrderRefundedEvent{} })
	register(EventOrderCompleted, func() Event { return &OrderCompletedEvent{} })
	register(EventOrderSuspended, func() Event { return &OrderSuspendedEvent{} })
	register(EventPlanCreated, func() Event { return &PlanCreatedEvent{} })
	register(EventPlanUpdated, func() Event { return &PlanUpdatedEvent{} })
	register(EventPlanDeleted, func() Event { return &PlanDeletedEvent{} })
	register(EventDownloadCreated, func() Event { return &DownloadCreatedEvent{} })
	register(EventDownloadUpdated, func() Event { return &DownloadUpdatedEvent{} })
	register(EventDownloadDeleted, func() Event { return &DownloadDeletedEvent{} })
}

// EventTypes returns the wire event-type strings Parse recognizes, sorted.
func EventTypes() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

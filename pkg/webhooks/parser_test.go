package webhooks

import (
	"errors"
	"reflect"
	"testing"
)

const signupPayload = `{
	"event": "member_signup",
	"member": {
		"id": 0,
		"email": "john.doe@example.com",
		"first_name": "John",
		"last_name": "Doe",
		"full_name": "John Doe",
		"created_at": 1756500000,
		"signup_method": "checkout",
		"stripe_customer_id": "cus_00000000000000",
		"address": {
			"street": "123 Main St",
			"city": "Portland",
			"postal_code": "97201",
			"country": "US"
		},
		"nickname": "jd"
	},
	"products": []
}`

func TestParse_MemberSignup(t *testing.T) {
	event, err := Parse([]byte(signupPayload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	signup, ok := event.(*MemberSignupEvent)
	if !ok {
		t.Fatalf("Parse returned %T, want *MemberSignupEvent", event)
	}
	if signup.EventType() != EventMemberSignup {
		t.Fatalf("EventType() = %q, want %q", signup.EventType(), EventMemberSignup)
	}
	// id: 0 is explicitly present, which satisfies the required check even
	// though it is the zero value.
	if signup.Member.ID != 0 {
		t.Fatalf("Member.ID = %d, want 0", signup.Member.ID)
	}
	if signup.Member.Email != "john.doe@example.com" {
		t.Fatalf("Member.Email = %q", signup.Member.Email)
	}
	if signup.Member.SignupMethod != SignupMethodCheckout {
		t.Fatalf("Member.SignupMethod = %q", signup.Member.SignupMethod)
	}
	if signup.Member.Address == nil || signup.Member.Address.City != "Portland" {
		t.Fatalf("Member.Address = %+v", signup.Member.Address)
	}
	if got := signup.Member.Created().Unix(); got != 1756500000 {
		t.Fatalf("Member.Created() = %d, want 1756500000", got)
	}
}

func TestParse_CapturesUnknownFields(t *testing.T) {
	event, err := Parse([]byte(signupPayload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	signup := event.(*MemberSignupEvent)

	// "products" is not modeled at the top level of the signup variant.
	if _, ok := signup.Extras()["products"]; !ok {
		t.Fatalf("top-level extras = %v, want to contain %q", signup.Extras(), "products")
	}
	// "nickname" is not modeled on the member record.
	if _, ok := signup.Member.Extras()["nickname"]; !ok {
		t.Fatalf("member extras = %v, want to contain %q", signup.Member.Extras(), "nickname")
	}
	// Modeled fields never leak into extras.
	if _, ok := signup.Member.Extras()["email"]; ok {
		t.Fatal("modeled field \"email\" must not appear in extras")
	}
}

func TestParse_MemberUpdatedWithChangeSet(t *testing.T) {
	payload := `{
		"event": "member_updated",
		"member": {"id": 42, "email": "new@example.com", "created_at": 1756500000},
		"changed": {
			"email": ["old@example.com", "new@example.com"],
			"plan_id": [117044, 199040]
		}
	}`

	event, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	updated := event.(*MemberUpdatedEvent)

	if !updated.Changed.Has("email") {
		t.Fatal("expected changed set to contain email")
	}
	oldEmail, newEmail, ok := updated.Changed["email"].Strings()
	if !ok || oldEmail != "old@example.com" || newEmail != "new@example.com" {
		t.Fatalf("email change = (%q, %q, %v)", oldEmail, newEmail, ok)
	}
	oldPlan, newPlan, ok := updated.Changed["plan_id"].Ints()
	if !ok || oldPlan != 117044 || newPlan != 199040 {
		t.Fatalf("plan_id change = (%d, %d, %v)", oldPlan, newPlan, ok)
	}
}

func TestParse_MemberUpdatedEmptyChangeSet(t *testing.T) {
	payload := `{
		"event": "member_updated",
		"member": {"id": 42, "email": "a@b.c", "created_at": 1},
		"changed": {}
	}`

	event, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	updated := event.(*MemberUpdatedEvent)
	if updated.Changed == nil {
		t.Fatal("empty changed object must decode to an empty, non-nil set")
	}
	if len(updated.Changed) != 0 {
		t.Fatalf("Changed = %v, want empty", updated.Changed)
	}
}

func TestParse_MemberDeleted(t *testing.T) {
	payload := `{"event": "member.deleted", "member": {"id": 42}}`

	event, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	deleted := event.(*MemberDeletedEvent)
	if deleted.Member.ID != 42 {
		t.Fatalf("Member.ID = %d, want 42", deleted.Member.ID)
	}
	if !deleted.Member.Deleted {
		t.Fatal("DeletedMember.Deleted should default to true")
	}
}

const subscriptionPayload = `{
	"event": "subscription.created",
	"subscription": {
		"id": 9203,
		"active": true,
		"autorenew": true,
		"created_at": "2026-08-29T12:00:00Z",
		"expires_at": "2026-09-29T12:00:00Z",
		"member": {"id": 42, "email": "a@b.c", "created_at": 1756500000},
		"subscription_plan": {"id": 117044, "name": "Monthly", "slug": "monthly", "price_cents": 1000}
	}
}`

func TestParse_SubscriptionCreated(t *testing.T) {
	event, err := Parse([]byte(subscriptionPayload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	created := event.(*SubscriptionCreatedEvent)

	sub := created.Subscription
	if sub.ID != 9203 || !sub.Active || !sub.Autorenew {
		t.Fatalf("subscription = %+v", sub)
	}
	// Subscription-family timestamps stay as ISO-8601 strings.
	if sub.CreatedAt != "2026-08-29T12:00:00Z" {
		t.Fatalf("CreatedAt = %q", sub.CreatedAt)
	}
	if sub.Member.ID != 42 {
		t.Fatalf("Member.ID = %d", sub.Member.ID)
	}
	if sub.Plan.Slug != "monthly" {
		t.Fatalf("Plan.Slug = %q", sub.Plan.Slug)
	}
	// Wire defaults apply when the payload omits the fields.
	if !sub.Plan.ForSale {
		t.Fatal("Plan.ForSale should default to true")
	}
	if sub.Plan.IntervalCount != 1 {
		t.Fatalf("Plan.IntervalCount = %d, want 1", sub.Plan.IntervalCount)
	}
}

func TestParse_SubscriptionRenewedCarriesOrder(t *testing.T) {
	payload := `{
		"event": "subscription.renewed",
		"subscription": {
			"id": 9203,
			"active": true,
			"autorenew": true,
			"created_at": "2026-08-29T12:00:00Z",
			"expires_at": "2026-09-29T12:00:00Z",
			"member": {"id": 42, "email": "a@b.c", "created_at": 1},
			"subscription_plan": {"id": 117044, "name": "Monthly", "slug": "monthly"}
		},
		"order": {
			"uuid": "3A04F7A3-3A9E-4DB5-9DDC-0E8C51B75E23",
			"number": "E6FB4DF1",
			"total": 1000,
			"status": "completed",
			"created_at": "2026-08-29T12:00:00Z"
		}
	}`

	event, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	renewed := event.(*SubscriptionRenewedEvent)
	if renewed.Order.UUID != "3A04F7A3-3A9E-4DB5-9DDC-0E8C51B75E23" {
		t.Fatalf("Order.UUID = %q", renewed.Order.UUID)
	}
	if renewed.Order.Status != OrderStatusCompleted {
		t.Fatalf("Order.Status = %q", renewed.Order.Status)
	}
	iso, ok := renewed.Order.CreatedAt.ISO()
	if !ok || iso != "2026-08-29T12:00:00Z" {
		t.Fatalf("Order.CreatedAt.ISO() = (%q, %v)", iso, ok)
	}
}

func TestParse_SubscriptionRenewedMissingOrder(t *testing.T) {
	payload := `{
		"event": "subscription.renewed",
		"subscription": {
			"id": 9203,
			"active": true,
			"autorenew": true,
			"created_at": "2026-08-29T12:00:00Z",
			"expires_at": "2026-09-29T12:00:00Z",
			"member": {"id": 42, "email": "a@b.c", "created_at": 1},
			"subscription_plan": {"id": 117044, "name": "Monthly", "slug": "monthly"}
		}
	}`

	_, err := Parse([]byte(payload))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Parse error = %v, want *SchemaError", err)
	}
	if se.Field != "order" {
		t.Fatalf("SchemaError.Field = %q, want %q", se.Field, "order")
	}
}

func TestParse_OrderPurchased(t *testing.T) {
	payload := `{
		"event": "order.purchased",
		"order": {
			"uuid": "AA0E8A8E-10E9-4A5D-9D27-17D0F953DE42",
			"number": "E6FB4DF1",
			"total": 2500,
			"status": "completed",
			"created_at": 1756500000,
			"member": {"id": 42, "email": "a@b.c", "created_at": 1},
			"products": [
				{"id": 1, "name": "Guide", "price": 2500, "slug": "guide"}
			],
			"subscriptions": [
				{
					"id": 9203,
					"active": true,
					"created_at": 1756500000,
					"expires": true,
					"expires_at": 1759100000,
					"subscription": {"id": 117044, "name": "Monthly", "slug": "monthly"}
				}
			]
		}
	}`

	event, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	purchased := event.(*OrderPurchasedEvent)

	// Order timestamps arrive as epoch seconds on some events, ISO strings on
	// others; the epoch form must round-trip through the union type.
	epoch, ok := purchased.Order.CreatedAt.Epoch()
	if !ok || epoch != 1756500000 {
		t.Fatalf("Order.CreatedAt.Epoch() = (%d, %v)", epoch, ok)
	}
	if len(purchased.Order.Products) != 1 || purchased.Order.Products[0].Slug != "guide" {
		t.Fatalf("Order.Products = %+v", purchased.Order.Products)
	}
	if len(purchased.Order.Subscriptions) != 1 {
		t.Fatalf("Order.Subscriptions = %+v", purchased.Order.Subscriptions)
	}
	// Member-purchase subscriptions carry their plan under the wire key
	// "subscription".
	if purchased.Order.Subscriptions[0].Plan.ID != 117044 {
		t.Fatalf("Subscriptions[0].Plan.ID = %d", purchased.Order.Subscriptions[0].Plan.ID)
	}
}

func TestParse_PlanEventsUseSubscriptionWireKey(t *testing.T) {
	payload := `{
		"event": "subscription_plan.created",
		"subscription": {
			"id": 117044,
			"name": "Monthly",
			"slug": "monthly",
			"price": 1000,
			"renewal_period": "monthly",
			"interval_unit": "month",
			"interval_count": 1,
			"for_sale": true
		}
	}`

	event, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	created := event.(*PlanCreatedEvent)
	if created.Plan.ID != 117044 || created.Plan.RenewalPeriod != RenewalPeriodMonthly {
		t.Fatalf("Plan = %+v", created.Plan)
	}
}

func TestParse_DownloadEvents(t *testing.T) {
	payload := `{
		"event": "download.deleted",
		"product": {"id": 7, "name": "Guide", "price": 2500, "slug": "guide", "for_sale": false}
	}`

	event, err := Parse([]byte(payload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	deleted := event.(*DownloadDeletedEvent)
	if deleted.Product.ID != 7 {
		t.Fatalf("Product.ID = %d", deleted.Product.ID)
	}
	if deleted.Product.ForSale {
		t.Fatal("explicit for_sale: false must override the wire default")
	}
}

func TestParse_UnknownEventType(t *testing.T) {
	_, err := Parse([]byte(`{"event": "gift.activated", "gift": {}}`))

	var unknown *UnknownEventError
	if !errors.As(err, &unknown) {
		t.Fatalf("Parse error = %v, want *UnknownEventError", err)
	}
	if unknown.Type != "gift.activated" {
		t.Fatalf("UnknownEventError.Type = %q", unknown.Type)
	}
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatal("unknown event error must match ErrUnknownEvent")
	}
}

func TestParse_EventTypesMatchLiterally(t *testing.T) {
	// The registry matches the literal wire string; near-miss separators and
	// case variants are unknown, never normalized.
	for _, tag := range []string{"member.signup", "member_deleted", "Member_Signup", "subscription_created"} {
		_, err := Parse([]byte(`{"event": "` + tag + `", "member": {"id": 1, "email": "a@b.c", "created_at": 1}}`))
		var unknown *UnknownEventError
		if !errors.As(err, &unknown) {
			t.Fatalf("Parse(%q) error = %v, want *UnknownEventError", tag, err)
		}
	}
}

func TestParse_MissingEventField(t *testing.T) {
	for _, payload := range []string{
		`{"member": {"id": 1}}`,
		`{"event": 42, "member": {"id": 1}}`,
		`{"event": null}`,
	} {
		_, err := Parse([]byte(payload))
		var unknown *UnknownEventError
		if !errors.As(err, &unknown) {
			t.Fatalf("Parse(%s) error = %v, want *UnknownEventError", payload, err)
		}
		if unknown.Type != "" {
			t.Fatalf("UnknownEventError.Type = %q, want empty", unknown.Type)
		}
	}
}

func TestParse_MalformedPayload(t *testing.T) {
	for _, payload := range []string{
		`not json at all`,
		`[1, 2, 3]`,
		`"member_signup"`,
		`null`,
		``,
	} {
		_, err := Parse([]byte(payload))
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("Parse(%q) error = %v, want ErrMalformedPayload", payload, err)
		}
	}
}

func TestParse_SchemaErrorNamesNestedField(t *testing.T) {
	payload := `{
		"event": "member_signup",
		"member": {"id": 42, "created_at": 1756500000}
	}`

	_, err := Parse([]byte(payload))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Parse error = %v, want *SchemaError", err)
	}
	if se.Field != "member.email" {
		t.Fatalf("SchemaError.Field = %q, want %q", se.Field, "member.email")
	}
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatal("schema error must match ErrInvalidPayload")
	}
}

func TestParse_SchemaErrorOnNullRequiredField(t *testing.T) {
	payload := `{
		"event": "member_signup",
		"member": {"id": 42, "email": null, "created_at": 1}
	}`

	_, err := Parse([]byte(payload))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Parse error = %v, want *SchemaError", err)
	}
	if se.Field != "member.email" {
		t.Fatalf("SchemaError.Field = %q, want %q", se.Field, "member.email")
	}
}

func TestParse_SchemaErrorInsideList(t *testing.T) {
	payload := `{
		"event": "order.purchased",
		"order": {
			"uuid": "AA0E8A8E",
			"total": 2500,
			"status": "completed",
			"products": [
				{"id": 1, "name": "Guide", "price": 2500, "slug": "guide"},
				{"id": 2, "name": "Broken", "slug": "broken"}
			]
		}
	}`

	_, err := Parse([]byte(payload))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Parse error = %v, want *SchemaError", err)
	}
	if se.Field != "order.products[1].price" {
		t.Fatalf("SchemaError.Field = %q, want %q", se.Field, "order.products[1].price")
	}
}

func TestParse_WrongJSONTypeForField(t *testing.T) {
	payload := `{
		"event": "member_signup",
		"member": {"id": "not-a-number", "email": "a@b.c", "created_at": 1}
	}`

	_, err := Parse([]byte(payload))
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("Parse error = %v, want ErrInvalidPayload", err)
	}
}

func TestParse_Deterministic(t *testing.T) {
	first, err := Parse([]byte(signupPayload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	second, err := Parse([]byte(signupPayload))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical bytes must produce identical events")
	}
}

func TestEventTypes_CoversAllVariants(t *testing.T) {
	types := EventTypes()
	if len(types) != 19 {
		t.Fatalf("EventTypes() has %d entries, want 19: %v", len(types), types)
	}
	seen := make(map[string]bool, len(types))
	for _, typ := range types {
		if seen[typ] {
			t.Fatalf("duplicate event type %q", typ)
		}
		seen[typ] = true
	}
	for _, want := range []string{EventMemberSignup, EventSubscriptionRenewed, EventPlanDeleted, EventDownloadCreated} {
		if !seen[want] {
			t.Fatalf("EventTypes() missing %q", want)
		}
	}
}

func TestHandle_RejectsBeforeParsing(t *testing.T) {
	// The payload is deliberately malformed: if Handle tried to parse before
	// verifying, the error kind would differ.
	body := []byte(`definitely not json`)
	_, err := Handle(body, "sha256=0000", testSecret)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Handle error = %v, want ErrInvalidSignature", err)
	}
}

func TestHandle_VerifiedPayloadParses(t *testing.T) {
	body := []byte(signupPayload)
	sig := signHex(t, body, testSecret)

	event, err := Handle(body, sig, testSecret)
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if _, ok := event.(*MemberSignupEvent); !ok {
		t.Fatalf("Handle returned %T, want *MemberSignupEvent", event)
	}
}

func TestHandle_TamperedPayloadAfterSigning(t *testing.T) {
	body := []byte(signupPayload)
	sig := signHex(t, body, testSecret)

	tampered := []byte(`{"event": "member_signup", "member": {"id": 666, "email": "evil@example.com", "created_at": 1}}`)
	_, err := Handle(tampered, sig, testSecret)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Handle error = %v, want ErrInvalidSignature", err)
	}
}

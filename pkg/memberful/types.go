package memberful

// API-side records are GraphQL projections and use the schema's camelCase
// field names and string IDs. They are distinct from the snake_case wire
// records delivered by webhooks (see pkg/webhooks).

// Member is a member as returned by the GraphQL API.
type Member struct {
	ID                 string         `json:"id"`
	Email              string         `json:"email"`
	FullName           string         `json:"fullName"`
	FirstName          string         `json:"firstName"`
	LastName           string         `json:"lastName"`
	Username           string         `json:"username"`
	PhoneNumber        string         `json:"phoneNumber"`
	UnrestrictedAccess bool           `json:"unrestrictedAccess"`
	StripeCustomerID   string         `json:"stripeCustomerId"`
	DiscordUserID      string         `json:"discordUserId"`
	TotalSpendCents    int64          `json:"totalSpendCents"`
	Subscriptions      []Subscription `json:"subscriptions"`
}

// Subscription is a subscription as returned by the GraphQL API. Timestamps
// are Unix epoch seconds.
type Subscription struct {
	ID           string `json:"id"`
	Active       bool   `json:"active"`
	Autorenew    bool   `json:"autorenew"`
	CreatedAt    int64  `json:"createdAt"`
	ExpiresAt    int64  `json:"expiresAt"`
	TrialStartAt int64  `json:"trialStartAt"`
	TrialEndAt   int64  `json:"trialEndAt"`
	Plan         Plan   `json:"plan"`
	Member       Member `json:"member"`
}

// Plan is a subscription plan as returned by the GraphQL API.
type Plan struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	PriceCents    int64  `json:"priceCents"`
	IntervalUnit  string `json:"intervalUnit"`
	IntervalCount int    `json:"intervalCount"`
	ForSale       bool   `json:"forSale"`
}

// PageInfo carries GraphQL connection paging state.
type PageInfo struct {
	EndCursor   string `json:"endCursor"`
	HasNextPage bool   `json:"hasNextPage"`
}

// PageParams selects a page of a cursor-paginated query.
type PageParams struct {
	// First is the page size. Defaults to 100, the API maximum.
	First int

	// After is the cursor of the previous page's last record, empty for the
	// first page.
	After string
}

// MemberPage is one page of the members connection.
type MemberPage struct {
	Members     []Member
	TotalCount  int
	EndCursor   string
	HasNextPage bool
}

// SubscriptionPage is one page of the subscriptions connection.
type SubscriptionPage struct {
	Subscriptions []Subscription
	TotalCount    int
	EndCursor     string
	HasNextPage   bool
}

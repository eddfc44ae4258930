package memberful

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

const memberFields = `
id
email
fullName
firstName
lastName
username
phoneNumber
unrestrictedAccess
stripeCustomerId
discordUserId
totalSpendCents
subscriptions {
  id
  active
  autorenew
  createdAt
  expiresAt
  trialStartAt
  trialEndAt
  plan {
    id
    name
    slug
    priceCents
    intervalUnit
    intervalCount
    forSale
  }
}`

var (
	queryMember = fmt.Sprintf(`query member($id: ID!) {
  member(id: $id) {%s
  }
}`, memberFields)

	queryMembers = fmt.Sprintf(`query members($first: Int!, $after: String) {
  members(first: $first, after: $after) {
    totalCount
    pageInfo {
      endCursor
      hasNextPage
    }
    edges {
      node {%s
      }
    }
  }
}`, memberFields)

	querySubscriptions = `query subscriptions($first: Int!, $after: String) {
  subscriptions(first: $first, after: $after) {
    totalCount
    pageInfo {
      endCursor
      hasNextPage
    }
    edges {
      node {
        id
        active
        autorenew
        createdAt
        expiresAt
        trialStartAt
        trialEndAt
        plan {
          id
          name
          slug
          priceCents
          intervalUnit
          intervalCount
          forSale
        }
        member {
          id
          email
          fullName
        }
      }
    }
  }
}`

	queryPlans = `query plans {
  plans {
    id
    name
    slug
    priceCents
    intervalUnit
    intervalCount
    forSale
  }
}`
)

// Member fetches a single member by ID. Returns ErrNotFound when the ID does
// not resolve.
func (c *Client) Member(ctx context.Context, id string) (*Member, error) {
	var data struct {
		Member *Member `json:"member"`
	}
	if err := c.Do(ctx, "member", queryMember, map[string]interface{}{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Member == nil {
		return nil, fmt.Errorf("member %s: %w", id, ErrNotFound)
	}
	return data.Member, nil
}

// Members fetches one page of the members connection.
func (c *Client) Members(ctx context.Context, params PageParams) (*MemberPage, error) {
	var data struct {
		Members struct {
			TotalCount int      `json:"totalCount"`
			PageInfo   PageInfo `json:"pageInfo"`
			Edges      []struct {
				Node Member `json:"node"`
			} `json:"edges"`
		} `json:"members"`
	}
	if err := c.Do(ctx, "members", queryMembers, pageVariables(params), &data); err != nil {
		return nil, err
	}
	page := &MemberPage{
		Members:     make([]Member, 0, len(data.Members.Edges)),
		TotalCount:  data.Members.TotalCount,
		EndCursor:   data.Members.PageInfo.EndCursor,
		HasNextPage: data.Members.PageInfo.HasNextPage,
	}
	for _, edge := range data.Members.Edges {
		page.Members = append(page.Members, edge.Node)
	}
	return page, nil
}

// AllMembers walks the members connection to the end. Prefer Members for
// large accounts.
func (c *Client) AllMembers(ctx context.Context) ([]Member, error) {
	var members []Member
	params := PageParams{}
	for {
		page, err := c.Members(ctx, params)
		if err != nil {
			return nil, err
		}
		members = append(members, page.Members...)
		if !page.HasNextPage {
			return members, nil
		}
		params.After = page.EndCursor
	}
}

// membersByIDConcurrency bounds parallel lookups so bulk fetches do not trip
// the API's rate limit.
const membersByIDConcurrency = 5

// MembersByID fetches several members concurrently. The result preserves the
// order of ids; the first failing lookup cancels the rest.
func (c *Client) MembersByID(ctx context.Context, ids []string) ([]*Member, error) {
	members := make([]*Member, len(ids))
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(membersByIDConcurrency)
	for i, id := range ids {
		group.Go(func() error {
			member, err := c.Member(ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			members[i] = member
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return members, nil
}

// Subscriptions fetches one page of the subscriptions connection.
func (c *Client) Subscriptions(ctx context.Context, params PageParams) (*SubscriptionPage, error) {
	var data struct {
		Subscriptions struct {
			TotalCount int      `json:"totalCount"`
			PageInfo   PageInfo `json:"pageInfo"`
			Edges      []struct {
				Node Subscription `json:"node"`
			} `json:"edges"`
		} `json:"subscriptions"`
	}
	if err := c.Do(ctx, "subscriptions", querySubscriptions, pageVariables(params), &data); err != nil {
		return nil, err
	}
	page := &SubscriptionPage{
		Subscriptions: make([]Subscription, 0, len(data.Subscriptions.Edges)),
		TotalCount:    data.Subscriptions.TotalCount,
		EndCursor:     data.Subscriptions.PageInfo.EndCursor,
		HasNextPage:   data.Subscriptions.PageInfo.HasNextPage,
	}
	for _, edge := range data.Subscriptions.Edges {
		page.Subscriptions = append(page.Subscriptions, edge.Node)
	}
	return page, nil
}

// Plans fetches all subscription plans.
func (c *Client) Plans(ctx context.Context) ([]Plan, error) {
	var data struct {
		Plans []Plan `json:"plans"`
	}
	if err := c.Do(ctx, "plans", queryPlans, nil, &data); err != nil {
		return nil, err
	}
	return data.Plans, nil
}

func pageVariables(params PageParams) map[string]interface{} {
	first := params.First
	if first <= 0 {
		first = defaultPageSize
	}
	variables := map[string]interface{}{"first": first}
	if params.After != "" {
		variables["after"] = params.After
	}
	return variables
}

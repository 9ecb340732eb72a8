package status

// Counts summarizes one organization's notification views and memberships.
type Counts struct {
	OrganizationID        int64               `json:"organizationId"`
	InboxCount            int                 `json:"inboxCount"`
	SentItems             int                 `json:"sentItems"`
	AwaitingApprovalCount int                 `json:"awaitingApprovalCount"`
	IsAdmin               bool                `json:"isAdmin"`
	Membership            MembershipBreakdown `json:"membership"`
}

type MembershipBreakdown struct {
	Total                 int `json:"total" db:"total"`
	Owners                int `json:"owners" db:"owners"`
	OrganizationInitiated int `json:"organizationInitiated" db:"organization_initiated"`
	MemberInitiated       int `json:"memberInitiated" db:"member_initiated"`
}

// NotificationCounts is the raw per-view tally read from the store.
type NotificationCounts struct {
	Inbox   int `db:"inbox_count"`
	Sent    int `db:"sent_items"`
	Pending int `db:"pending_count"`
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Plan constants
const (
	PlanFree    = "free"
	PlanStarter = "starter"
	PlanPro     = "pro"
	PlanAgency  = "agency"
)

// Submission action constants
const (
	ActionAllowed = "allowed"
	ActionFlagged = "flagged"
	ActionBlocked = "blocked"
)

// Member role constants
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Domain types

type User struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	OrganizationID   string `json:"organizationId"`
	OrganizationName string `json:"organizationName"`
	Plan             string `json:"plan"`
}

type Member struct {
	ID       string    `json:"_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// UnmarshalJSON accepts a bare id as well as a populated member
func (m *Member) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*m = Member{}
		return json.Unmarshal(data, &m.ID)
	}

	type plain Member
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Member(p)
	return nil
}

type Organization struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner,omitempty"`
	Members   []Member  `json:"members,omitempty"`
	OwnerID   *Member   `json:"ownerId,omitempty"`
	MemberIDs []Member  `json:"memberIds,omitempty"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"createdAt"`
}

// Roster lists the owner first, then the members. The populated
// ownerId/memberIds fields take precedence over members; missing roles and
// join dates default to owner/member and the organization's creation time.
func (o Organization) Roster() []Member {
	if o.OwnerID == nil && len(o.MemberIDs) == 0 {
		return o.Members
	}

	all := make([]Member, 0, len(o.MemberIDs)+1)
	fill := func(m Member, role string) Member {
		if m.Role == "" {
			m.Role = role
		}
		if m.JoinedAt.IsZero() {
			m.JoinedAt = o.CreatedAt
		}
		return m
	}

	if o.OwnerID != nil {
		all = append(all, fill(*o.OwnerID, RoleOwner))
	}
	for _, m := range o.MemberIDs {
		all = append(all, fill(m, RoleMember))
	}
	return all
}

// IsOwner reports whether email is the organization owner's, ignoring case
func (o Organization) IsOwner(email string) bool {
	if email == "" {
		return false
	}
	for _, m := range o.Roster() {
		if m.Role == RoleOwner && strings.EqualFold(m.Email, email) {
			return true
		}
	}
	return false
}

type AutoActions struct {
	BlockOnLowScore      bool `json:"blockOnLowScore"`
	ScoreThreshold       int  `json:"scoreThreshold"`
	BlockVPN             bool `json:"blockVPN"`
	BlockDisposableEmail bool `json:"blockDisposableEmail"`
}

type FormStats struct {
	TotalSubmissions   int  `json:"totalSubmissions"`
	FlaggedSubmissions int  `json:"flaggedSubmissions"`
	BlockedSubmissions int  `json:"blockedSubmissions"`
	AvgQualityScore    *int `json:"avgQualityScore,omitempty"`
}

type Form struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Domain      string      `json:"domain"`
	Steps       int         `json:"steps"`
	APIKey      string      `json:"apiKey"`
	WebhookURL  string      `json:"webhookUrl,omitempty"`
	AutoActions AutoActions `json:"autoActions"`
	Stats       FormStats   `json:"stats"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type SubmissionFlags struct {
	VPN             bool `json:"vpn"`
	Proxy           bool `json:"proxy"`
	DisposableEmail bool `json:"disposableEmail"`
	Duplicate       bool `json:"duplicate"`
	FastCompletion  bool `json:"fastCompletion"`
}

// FormRef is the form a submission belongs to. List endpoints populate it
// as {_id, name, domain}; others send the bare id.
type FormRef struct {
	ID     string `json:"_id"`
	Name   string `json:"name,omitempty"`
	Domain string `json:"domain,omitempty"`
}

func (f *FormRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FormRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		*f = FormRef{}
		return json.Unmarshal(data, &f.ID)
	}

	type plain FormRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = FormRef(p)
	return nil
}

type Submission struct {
	ID             string          `json:"_id"`
	Form           FormRef         `json:"formId"`
	Email          string          `json:"email"`
	IP             string          `json:"ip"`
	Country        string          `json:"country"`
	City           string          `json:"city"`
	Device         string          `json:"device"`
	Browser        string          `json:"browser"`
	CompletionTime float64         `json:"completionTime"`
	QualityScore   int             `json:"qualityScore"`
	Action         string          `json:"action"`
	Flags          SubmissionFlags `json:"flags"`
	Fields         map[string]any  `json:"fields,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type DashboardStats struct {
	TotalForms           int       `json:"totalForms"`
	TotalSubmissions     int       `json:"totalSubmissions"`
	SubmissionsThisMonth int       `json:"submissionsThisMonth"`
	SubmissionsLimit     int       `json:"submissionsLimit"`
	FlaggedSubmissions   int       `json:"flaggedSubmissions"`
	BlockedSubmissions   int       `json:"blockedSubmissions"`
	AvgQualityScore      int       `json:"avgQualityScore"`
	Plan                 string    `json:"plan"`
	BillingPeriodEnd     time.Time `json:"billingPeriodEnd"`
}

// CountByKey is the {_id, count} pair the analytics endpoint groups by.
type CountByKey struct {
	ID    any `json:"_id"`
	Count int `json:"count"`
}

type DateCount struct {
	ID       string  `json:"_id"`
	Count    int     `json:"count"`
	AvgScore float64 `json:"avgScore"`
}

type Analytics struct {
	DropOffsByStep      []CountByKey `json:"dropOffsByStep"`
	FieldErrors         []CountByKey `json:"fieldErrors"`
	ScoreDistribution   []CountByKey `json:"scoreDistribution"`
	SubmissionsOverTime []DateCount  `json:"submissionsOverTime"`
}

type Billing struct {
	Plan                 string     `json:"plan"`
	Status               string     `json:"status,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd    bool       `json:"cancelAtPeriodEnd,omitempty"`
	SubmissionsThisMonth int        `json:"submissionsThisMonth,omitempty"`
	SubmissionsLimit     int        `json:"submissionsLimit,omitempty"`
}

// Chart types

// TimeBucket is one day of the submissions-over-time chart.
type TimeBucket struct {
	Date     string `json:"date"`
	Count    int    `json:"count"`
	AvgScore int    `json:"avgScore"`
}

// ScoreBucket is one bar of the quality score distribution chart.
type ScoreBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Request types

type MagicLinkRequest struct {
	Email string `json:"email"`
}

type VerifyRequest struct {
	Token string `json:"token"`
}

type RegisterRequest struct {
	Email            string `json:"email"`
	OrganizationName string `json:"organizationName"`
	Name             string `json:"name,omitempty"`
}

type UpdateOrganizationRequest struct {
	Name string `json:"name"`
}

type InviteMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CheckoutRequest struct {
	Plan string `json:"plan"`
}

type FormRequest struct {
	Name        string       `json:"name"`
	Domain      string       `json:"domain"`
	Steps       int          `json:"steps,omitempty"`
	WebhookURL  string       `json:"webhookUrl,omitempty"`
	AutoActions *AutoActions `json:"autoActions,omitempty"`
}

type UpdateSubmissionRequest struct {
	Action string `json:"action"`
}

// SubmissionFilter narrows GET /submissions. Zero values are omitted.
type SubmissionFilter struct {
	FormID string
	Action string
	Page   int
	Limit  int
}

// Response envelopes

type UserResponse struct {
	User User `json:"user"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type OrganizationResponse struct {
	Organization Organization `json:"organization"`
}

type StatsResponse struct {
	Stats DashboardStats `json:"stats"`
}

type BillingResponse struct {
	Billing Billing `json:"billing"`
}

type URLResponse struct {
	URL string `json:"url"`
}

type VerifySessionResponse struct {
	Success bool           `json:"success"`
	Session map[string]any `json:"session,omitempty"`
}

type FormsResponse struct {
	Forms []Form `json:"forms"`
}

type FormResponse struct {
	Form Form `json:"form"`
}

type APIKeyResponse struct {
	APIKey string `json:"apiKey"`
}

type AnalyticsResponse struct {
	Analytics Analytics `json:"analytics"`
}

type SubmissionsResponse struct {
	Submissions []Submission `json:"submissions"`
	Count       int          `json:"count"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	Pages       int          `json:"pages"`
}

type SubmissionResponse struct {
	Submission Submission `json:"submission"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Flash is a one-shot notification shown on the next rendered page
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// ChartsResponse is served by GET /dashboard/charts
type ChartsResponse struct {
	SubmissionsOverTime []TimeBucket  `json:"submissionsOverTime"`
	ScoreDistribution   []ScoreBucket `json:"scoreDistribution"`
}

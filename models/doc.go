// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the FormGuard API types shared by the client,
the handlers and the views.

# Domain Types

Records returned by the FormGuard REST API:

  - User: the signed-in account (id, email, organization, plan)
  - Organization, Member: tenant and its members
  - Form: a protected form with auto-actions and stats
  - Submission: one scored form submission (quality score 0-100, action, flags)
  - DashboardStats, Analytics, Billing: aggregate views

# Chart Types

Derived locally by package aggregate:

  - TimeBucket: date label, count, rounded average score
  - ScoreBucket: score range label, count

# Envelopes

The API wraps every payload in a named field, e.g. {"forms": [...]}.
Each has a matching *Response type (FormsResponse, SubmissionsResponse, ...).
Errors carry a human-readable "message".

# Constants

Plans:

	PlanFree, PlanStarter, PlanPro, PlanAgency

Submission actions:

	ActionAllowed = "allowed"
	ActionFlagged = "flagged"
	ActionBlocked = "blocked"

Member roles:

	RoleOwner, RoleAdmin, RoleMember
*/
package models

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import "github.com/danielhkuo/formguard-web/models"

// Page-specific template data

type LoginData struct {
	Email string
	Sent  bool
}

type RegisterData struct {
	Email            string
	OrganizationName string
	Name             string
	Sent             bool
}

// VerifyData backs the failed sign-in page. Token is empty when the link
// carried none, in which case no retry is offered.
type VerifyData struct {
	Token   string
	Message string
}

type DashboardData struct {
	Stats      models.DashboardStats
	TimeSeries []models.TimeBucket
	Histogram  []models.ScoreBucket
	MaxDaily   int
	MaxBucket  int
	Recent     []models.Submission
}

type FormsData struct {
	Forms    []models.Form
	Defaults models.AutoActions
}

type FormData struct {
	Form        models.Form
	Submissions []models.Submission
	Analytics   *models.Analytics
	Snippet     string
}

// ConfirmData backs the confirmation step of every destructive action
type ConfirmData struct {
	Heading string
	Message string
	Action  string
	Cancel  string
	Button  string
}

type SubmissionsData struct {
	Submissions []models.Submission
	Forms       []models.Form
	Filter      models.SubmissionFilter
	Total       int
	Page        int
	Pages       int
	PrevURL     string
	NextURL     string
	ExportURL   string
}

type SubmissionData struct {
	Submission models.Submission
	Actions    []string
}

// SettingsData backs the settings page. Members and billing are shown
// to the organization owner only.
type SettingsData struct {
	Organization models.Organization
	Members      []models.Member
	IsOwner      bool
	Stats        models.DashboardStats
	Forms        []models.Form
	Billing      *models.Billing
	Plans        []string
}

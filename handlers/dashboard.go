// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/formguard-web/aggregate"
	"github.com/danielhkuo/formguard-web/apiclient"
	"github.com/danielhkuo/formguard-web/middleware"
	"github.com/danielhkuo/formguard-web/models"
	"github.com/danielhkuo/formguard-web/views"
)

const (
	// chartSampleSize is how many recent submissions feed the charts
	chartSampleSize = 100
	recentRows      = 10
)

type DashboardHandler struct {
	base
}

func NewDashboardHandler(api *apiclient.Client, renderer *views.Renderer) *DashboardHandler {
	return &DashboardHandler{base: base{api: api, views: renderer}}
}

// fetch loads the stats and the chart sample in parallel
func (h *DashboardHandler) fetch(ctx context.Context, client *apiclient.Client) (models.DashboardStats, []models.Submission, error) {
	var (
		stats models.DashboardStats
		subs  models.SubmissionsResponse
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = client.GetStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = client.ListSubmissions(ctx, models.SubmissionFilter{Limit: chartSampleSize})
		return err
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, nil, err
	}
	return stats, subs.Submissions, nil
}

// Dashboard handles GET /dashboard
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	page := views.Page{Title: "Dashboard", Active: "dashboard"}

	stats, submissions, err := h.fetch(r.Context(), h.client(r))
	if err != nil {
		slog.Error("failed to fetch dashboard data", "error", err)
		page.Flash = errorFlash("Failed to load dashboard data")
	}

	data := views.DashboardData{
		Stats:      stats,
		TimeSeries: aggregate.BuildTimeSeries(submissions),
		Histogram:  aggregate.BuildScoreHistogram(submissions),
		Recent:     submissions[:min(recentRows, len(submissions))],
	}
	for _, b := range data.TimeSeries {
		data.MaxDaily = max(data.MaxDaily, b.Count)
	}
	for _, b := range data.Histogram {
		data.MaxBucket = max(data.MaxBucket, b.Count)
	}

	page.Data = data
	h.render(w, r, http.StatusOK, "dashboard", page)
}

// Charts handles GET /dashboard/charts, the chart series as JSON
func (h *DashboardHandler) Charts(w http.ResponseWriter, r *http.Request) {
	_, submissions, err := h.fetch(r.Context(), h.client(r))
	if err != nil {
		slog.Error("failed to fetch chart data", "error", err)
		status := apiclient.StatusOf(err)
		if status == 0 || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		middleware.ErrorResponse(w, status, apiMessage(err, "Failed to load chart data"))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ChartsResponse{
		SubmissionsOverTime: aggregate.BuildTimeSeries(submissions),
		ScoreDistribution:   aggregate.BuildScoreHistogram(submissions),
	})
}

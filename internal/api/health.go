// Copyright (c) 2025-2026 Telford Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"time"
)

// =============================================================================
// HEALTH OPERATIONS
// =============================================================================

// ComponentHealth describes one backend subsystem on the status dashboard.
type ComponentHealth struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "degraded", or "down"
	Message string `json:"message,omitempty"`
}

// HealthStatus is the reply to GetHealthStatus.
type HealthStatus struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Uptime     int64             `json:"uptimeSeconds"`
	CheckedAt  time.Time         `json:"checkedAt"`
	Components []ComponentHealth `json:"components"`
}

// Healthy reports whether every component is ok.
func (h *HealthStatus) Healthy() bool {
	if h.Status != "ok" {
		return false
	}
	for _, c := range h.Components {
		if c.Status != "ok" {
			return false
		}
	}
	return true
}

// GetHealthStatus returns the backend's component health report.
func (c *Client) GetHealthStatus(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.getJSON(ctx, "/api/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

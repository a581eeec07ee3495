// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"

	"github.com/holomush/holosit/internal/observability"
)

// ServeDeps holds injectable dependencies for the serve command.
// Nil fields are replaced with production implementations.
type ServeDeps struct {
	// ObservabilityServerFactory creates the metrics/health server.
	// Default: observability.NewServer with build info set.
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker, registrars ...observability.Registrar) ObservabilityServer

	// ConfigPathResolver maps the --config value to the file to load.
	// Default: resolveConfigPath
	ConfigPathResolver func(explicit string) (string, error)
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	SetStatus(fn observability.StatusFunc)
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker, registrars ...observability.Registrar) ObservabilityServer {
			s := observability.NewServer(addr, ready, registrars...)
			s.SetBuildInfo(version)
			return s
		}
	}
	if out.ConfigPathResolver == nil {
		out.ConfigPathResolver = resolveConfigPath
	}
	return &out
}

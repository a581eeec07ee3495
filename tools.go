// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build tools
// +build tools

// Package main keeps test-only modules in go.mod when no build tag pulls
// them in.
package main

import (
	// Integration suites under test/integration
	_ "github.com/onsi/ginkgo/v2"
	_ "github.com/onsi/gomega"

	// Unit tests
	_ "github.com/prometheus/client_golang/prometheus/testutil"
	_ "github.com/stretchr/testify/assert"
	_ "github.com/stretchr/testify/mock"
	_ "github.com/stretchr/testify/require"
	_ "go.uber.org/goleak"
)

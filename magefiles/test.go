//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (all, unit, cover).
type Test mg.Namespace

// All runs every test with the race detector.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "-v", "./...")
}

// Unit runs every test once, bypassing the test cache.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-count=1", "./...")
}

// Cover writes a coverage profile to bin/coverage.out and prints the
// per-function summary.
func (Test) Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, "coverage.out")
	if err := sh.RunV(binGo, "test", "-coverprofile="+profile, "./..."); err != nil {
		return err
	}
	out, err := sh.Output(binGo, "tool", "cover", "-func="+profile)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

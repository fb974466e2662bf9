//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the satzkarte project using Mage.
//
// Usage:
//
//	mage build        Compile satzkarte binary to bin/
//	mage test:all     Run all tests
//	mage test:unit    Run tests without the race detector or cache
//	mage test:cover   Run tests with a coverage profile in bin/
//	mage lint         Run go vet and golangci-lint
//	mage clean        Remove build artifacts
//	mage install      Install satzkarte to GOPATH/bin
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo       = "go"
	binaryName  = "satzkarte"
	binaryDir   = "bin"
	cmdDir      = "./cmd/satzkarte"
	versionVar  = "github.com/mesh-intelligence/satzkarte/internal/cli.Version"
	versionFile = "VERSION"
)

// Build compiles the satzkarte binary to bin/. The version is taken from
// $SATZKARTE_VERSION, then a VERSION file, and is left at the built-in
// default otherwise.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if v := buildVersion(); v != "" {
		args = append(args, "-ldflags", "-X "+versionVar+"="+v)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

func buildVersion() string {
	if v := os.Getenv("SATZKARTE_VERSION"); v != "" {
		return strings.TrimPrefix(v, "v")
	}
	data, err := os.ReadFile(versionFile)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(string(data)), "v")
}

// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package main

import "github.com/cockroachdb/execcore/pkg/cli"

func main() {
	cli.Main()
}

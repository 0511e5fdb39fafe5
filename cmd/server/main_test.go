package main

import (
	"testing"
)

func TestBuildOverridesLeavesUnsetFlagsNil(t *testing.T) {
	flags := &cliFlags{
		totalSeats:     -1,
		baseSeats:      -1,
		rateLimitRPS:   -1,
		rateLimitBurst: -1,
	}

	overrides := buildOverrides(flags)

	if overrides.Port != nil || overrides.PopulationsStr != nil {
		t.Fatalf("expected string overrides to stay nil")
	}
	if overrides.TotalSeats != nil || overrides.BaseSeats != nil {
		t.Fatalf("expected seat overrides to stay nil")
	}
	if overrides.RateLimitRPS != nil || overrides.RateLimitBurst != nil {
		t.Fatalf("expected rate limit overrides to stay nil")
	}
}

func TestBuildOverridesAppliesSetFlags(t *testing.T) {
	flags := &cliFlags{
		configFile:     "config.yaml",
		port:           "9000",
		populations:    "1,2,3",
		totalSeats:     100,
		baseSeats:      0,
		rateLimitRPS:   10,
		rateLimitBurst: 20,
	}

	overrides := buildOverrides(flags)

	if overrides.ConfigFile != "config.yaml" {
		t.Fatalf("unexpected config file: %s", overrides.ConfigFile)
	}
	if overrides.Port == nil || *overrides.Port != "9000" {
		t.Fatalf("expected port override")
	}
	if overrides.PopulationsStr == nil || *overrides.PopulationsStr != "1,2,3" {
		t.Fatalf("expected populations override")
	}
	if overrides.TotalSeats == nil || *overrides.TotalSeats != 100 {
		t.Fatalf("expected total seats override")
	}
	// zero is a real value for base seats, not an unset marker
	if overrides.BaseSeats == nil || *overrides.BaseSeats != 0 {
		t.Fatalf("expected base seats override of 0")
	}
	if overrides.RateLimitRPS == nil || *overrides.RateLimitRPS != 10 {
		t.Fatalf("expected rate limit rps override")
	}
	if overrides.RateLimitBurst == nil || *overrides.RateLimitBurst != 20 {
		t.Fatalf("expected rate limit burst override")
	}
}

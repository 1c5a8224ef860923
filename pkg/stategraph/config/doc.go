/*
Package config provides type-safe access to map[string]any configuration
and builds state schemas from config files.

# Overview

Config wraps a map[string]any with typed accessor methods that handle
missing keys and type mismatches by returning a caller-supplied default.
This avoids verbose type assertions when reading YAML or JSON structures.

# Basic Usage

	cfg := config.New(map[string]any{
	    "step_limit": 50,
	    "trace_db":   "runs.db",
	    "tracing":    true,
	})

	limit := cfg.Int("step_limit", 1000)       // 50
	db := cfg.String("trace_db", ":memory:")   // "runs.db"
	tracing := cfg.Bool("tracing", false)      // true

# File Loading

	cfg, err := config.FromFile("workflow.yaml")

FromYAML and FromJSON parse raw bytes. Expand substitutes ${name}
placeholders in string values from a vars map or the environment.

# State Schemas

SchemaFromConfig reads a "state" section and produces a state.Schema, so
a workflow's state shape can live next to its tuning knobs:

	state:
	  - name: topic
	    type: string
	  - name: iteration
	    type: number
	    default: 0

# Thread Safety

Config is safe for concurrent reads. The underlying map must not be
modified after creation.
*/
package config

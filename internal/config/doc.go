// Package config loads server settings from the environment and band tables
// from YAML files.
//
// Environment variables:
//
//	ASTRO_MCP_LOG_LEVEL      trace, debug, info, warn or error (default info)
//	ASTRO_MCP_BANDS          path to a YAML band table (default built-in table)
//	ASTRO_MCP_MAX_LINK_HOPS  hysteresis hop bound, 0 for unbounded (default 200)
//
// A band table file lists the bands from top to bottom. Any threshold left out
// of a band, or of small_object, keeps its default value:
//
//	small_object_limit: 18
//	small_object:
//	  min_area: 7
//	bands:
//	  - name: upper
//	    max_y: 1200
//	    thresholds:
//	      max_mean_intensity: 100
//	  - name: lower
package config

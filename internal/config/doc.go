// Package config loads and validates jobsingest configuration.
//
// Values are resolved in order of increasing precedence:
//
//	1. Defaults (Default)
//	2. YAML file (--config, or jobsingest.yaml / configs/jobsingest.yaml)
//	3. Environment variables, JOBSINGEST_<SECTION>_<KEY>
//	4. Command-line flags
//
// For example JOBSINGEST_INGEST_BUCKET_MINUTES=15 or, in YAML:
//
//	ingest:
//	  out: out/jobs_like.csv
//	  bucket_minutes: 15
//	logging:
//	  level: debug
package config

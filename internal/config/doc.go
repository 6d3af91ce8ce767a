// Package config provides configuration parsing for the loom CLI.
//
// The configuration is stored in loom.yaml in the working directory. JSON
// is accepted as well, since it is valid YAML.
//
// # Configuration File Structure
//
//	render:
//	  renderLimit: 1000
//	  indent: "  "
//	bench:
//	  iterations: 1000
//	  items: 50
//	serve:
//	  addr: ":8080"
//	  metricsPath: /metrics
//	log:
//	  level: info
//	  format: text
//	metrics:
//	  namespace: loom
//	tracing:
//	  enabled: false
//
// Missing fields take their defaults.
package config

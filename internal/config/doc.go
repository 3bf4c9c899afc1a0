// Package config manages user-level settings stored at ~/.reactkit/config.yaml.
// Values can be overridden with REACTKIT_* environment variables. The pipeline
// reads the default template, the required Node.js version range, logging
// options and the child process timeout from here.
package config

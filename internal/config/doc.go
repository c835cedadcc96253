// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.tabby/tabby.toml or OS-specific config directory)
// 3. Project config file (tabby.toml or .tabby.toml in the working directory)
// 4. Environment variables (TABBY_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.tabby/tabby.toml (preferred)
// - Windows: %APPDATA%\tabby\tabby.toml
// - macOS: ~/Library/Application Support/tabby/tabby.toml
// - Linux/BSD: $XDG_CONFIG_HOME/tabby/tabby.toml or ~/.config/tabby/tabby.toml
//
// Project-level config locations (overrides user config):
// - ./tabby.toml (preferred)
// - ./.tabby.toml
package config

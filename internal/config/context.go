package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Context is the persisted active realm and sandbox selection.
//
// Selecting a new realm does not clear the sandbox alias. A stale alias from
// another realm can stay selected until explicitly overwritten; the sandbox
// commands re-resolve it against the remote side, which rejects unknown
// aliases.
type Context struct {
	Realm   string
	Sandbox string
}

// LoadContext reads the context file from configDir. A missing file or a
// file without a realm line yields the default realm, which config.toml's
// default_realm setting can override.
func LoadContext(configDir string) (*Context, error) {
	fallback := fallbackRealm(configDir)

	path := filepath.Join(configDir, contextFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Context{Realm: fallback}, nil
		}
		return nil, fmt.Errorf("failed to read context: %w", err)
	}

	ctx := &Context{Realm: fallback}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		switch fields[0] {
		case "realm":
			ctx.Realm = fields[1]
		case "sandbox":
			ctx.Sandbox = fields[1]
		}
	}
	return ctx, nil
}

// fallbackRealm resolves the realm used when no realm is selected yet. An
// unreadable config falls back to the built-in default; config problems
// surface where the config is actually needed.
func fallbackRealm(configDir string) string {
	cfg, err := LoadConfig(configDir)
	if err != nil || cfg.DefaultRealm == "" {
		return DefaultRealm
	}
	return cfg.DefaultRealm
}

// SaveContext writes the context file. The format is two human-editable
// key-value lines; the sandbox line is omitted when no sandbox is selected.
func SaveContext(configDir string, ctx *Context) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "realm %s\n", ctx.Realm)
	if ctx.Sandbox != "" {
		fmt.Fprintf(&b, "sandbox %s\n", ctx.Sandbox)
	}

	path := filepath.Join(configDir, contextFile)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write context: %w", err)
	}
	return nil
}

// SetRealm persists a new active realm, keeping the sandbox selection as-is.
func SetRealm(configDir, realm string) error {
	ctx, err := LoadContext(configDir)
	if err != nil {
		return err
	}
	ctx.Realm = realm
	return SaveContext(configDir, ctx)
}

// SetSandbox persists a new active sandbox alias.
func SetSandbox(configDir, alias string) error {
	ctx, err := LoadContext(configDir)
	if err != nil {
		return err
	}
	ctx.Sandbox = alias
	return SaveContext(configDir, ctx)
}

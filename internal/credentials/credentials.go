// Package credentials detects whether Claude Code OAuth credentials exist.
// Only presence is reported; token material never leaves this package.
package credentials

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/himattm/claude-statusline/internal/config"
	"github.com/himattm/claude-statusline/internal/logger"
)

const (
	keychainService = "Claude Code-credentials"
	keychainTimeout = 2 * time.Second
)

// Probe answers whether OAuth usage credentials are available
type Probe interface {
	HasOAuthCredentials(ctx context.Context) bool
}

// Static is a Probe with a fixed answer
type Static bool

func (s Static) HasOAuthCredentials(context.Context) bool { return bool(s) }

// SystemProbe checks the macOS Keychain, then ~/.claude/.credentials.json
type SystemProbe struct {
	// ClaudeDir defaults to config.ClaudeDir()
	ClaudeDir string
	// ReadFile and Keychain are replaceable in tests
	ReadFile func(path string) ([]byte, error)
	Keychain func(ctx context.Context) ([]byte, error)
	Log      logger.Logger
}

// oauthCredentials mirrors the stored credential document
type oauthCredentials struct {
	ClaudeAIOAuth *struct {
		AccessToken string `json:"accessToken"`
	} `json:"claudeAiOauth"`
}

func (p SystemProbe) HasOAuthCredentials(ctx context.Context) bool {
	log := p.Log
	if log == nil {
		log = logger.Noop()
	}

	keychain := p.Keychain
	if keychain == nil && runtime.GOOS == "darwin" {
		keychain = readKeychain
	}
	if keychain != nil {
		if data, err := keychain(ctx); err == nil && hasAccessToken(data) {
			log.Debug("credentials: found OAuth token in keychain")
			return true
		} else if err != nil {
			log.Debug("credentials: keychain lookup failed: %v", err)
		}
	}

	dir := p.ClaudeDir
	if dir == "" {
		dir = config.ClaudeDir()
	}
	readFile := p.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	path := filepath.Join(dir, ".credentials.json")
	data, err := readFile(path)
	if os.IsNotExist(err) {
		log.Debug("credentials: no %s", path)
		return false
	}
	if err != nil {
		log.Warn("credentials: cannot read %s: %v", path, err)
		return false
	}
	found := hasAccessToken(data)
	log.Debug("credentials: %s has OAuth token: %t", path, found)
	return found
}

func hasAccessToken(data []byte) bool {
	var creds oauthCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return false
	}
	return creds.ClaudeAIOAuth != nil && creds.ClaudeAIOAuth.AccessToken != ""
}

func readKeychain(ctx context.Context) ([]byte, error) {
	// Short timeout so a Keychain prompt cannot stall setup
	ctx, cancel := context.WithTimeout(ctx, keychainTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "security", "find-generic-password", "-s", keychainService, "-w")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(out.Bytes()), nil
}

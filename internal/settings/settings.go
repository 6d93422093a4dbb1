// Package settings points Claude Code's settings.json at an installed renderer.
package settings

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/himattm/claude-statusline/internal/errors"
	"github.com/himattm/claude-statusline/internal/util"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Key is the settings.json member that configures the status line
const Key = "statusLine"

// ErrMalformed is returned when the existing settings are not a JSON object
var ErrMalformed = stderrors.New("settings document is not a valid JSON object")

// StatusLine is the value written under Key
type StatusLine struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// Command returns the statusLine command that runs the renderer at path
func Command(path string) string {
	return util.ShellWord(path)
}

// Apply returns raw with statusLine set to run the renderer at path.
// Every other top-level member keeps its position and its exact value.
// Empty input counts as an empty object. Anything that is not a JSON
// object is rejected and nothing is produced.
func Apply(raw []byte, path string) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		trimmed = []byte("{}")
	}
	if !json.Valid(trimmed) || trimmed[0] != '{' {
		return nil, malformed(ErrMalformed)
	}

	members, err := decodeMembers(trimmed)
	if err != nil {
		return nil, malformed(stderrors.Join(ErrMalformed, err))
	}

	value, err := encode(StatusLine{Type: "command", Command: Command(path)})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSettings, "Cannot encode statusLine", "")
	}
	members.Set(Key, value)

	var compact bytes.Buffer
	compact.WriteByte('{')
	for pair := members.Oldest(); pair != nil; pair = pair.Next() {
		if compact.Len() > 1 {
			compact.WriteByte(',')
		}
		key, err := encode(pair.Key)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrSettings, "Cannot encode settings key", "")
		}
		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(pair.Value)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, malformed(stderrors.Join(ErrMalformed, err))
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// decodeMembers reads the top-level members of an object in document order.
// A repeated key keeps its first position and its last value.
func decodeMembers(data []byte) (*orderedmap.OrderedMap[string, json.RawMessage], error) {
	members := orderedmap.New[string, json.RawMessage]()
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		members.Set(key, value)
	}
	return members, nil
}

// Current returns the statusLine command configured in raw, if any
func Current(raw []byte) (string, bool) {
	var doc struct {
		StatusLine *StatusLine `json:"statusLine"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil || doc.StatusLine == nil {
		return "", false
	}
	return doc.StatusLine.Command, doc.StatusLine.Command != ""
}

// Result describes a finished Patch
type Result struct {
	Path       string
	BackupPath string // empty when there was no previous file
	Command    string
}

// Patch rewrites the settings file at settingsPath so the status line runs
// the renderer at path. The previous file is kept as settingsPath.backup.
// A malformed settings file is left untouched.
func Patch(settingsPath, path string) (Result, error) {
	raw, mode, existed, err := read(settingsPath)
	if err != nil {
		return Result{}, err
	}
	patched, err := Apply(raw, path)
	if err != nil {
		return Result{}, err
	}

	res := Result{Path: settingsPath, Command: Command(path)}
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		return Result{}, errors.WrapWithCode(err, errors.ErrSettings,
			"Cannot create "+filepath.Dir(settingsPath),
			"Check directory permissions")
	}
	if existed {
		res.BackupPath = settingsPath + ".backup"
		if err := os.WriteFile(res.BackupPath, raw, mode); err != nil {
			return Result{}, errors.WrapWithCode(err, errors.ErrSettings,
				"Cannot back up "+settingsPath,
				"Check file permissions")
		}
	}
	if err := util.WriteFileAtomic(settingsPath, patched, mode); err != nil {
		return Result{}, errors.WrapWithCode(err, errors.ErrSettings,
			"Cannot write "+settingsPath,
			"Check file permissions")
	}
	return res, nil
}

// Check reports whether the settings file at settingsPath could be patched
func Check(settingsPath string) error {
	raw, _, _, err := read(settingsPath)
	if err != nil {
		return err
	}
	_, err = Apply(raw, "/")
	return err
}

func read(settingsPath string) ([]byte, os.FileMode, bool, error) {
	raw, err := os.ReadFile(settingsPath)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, 0644, false, nil
	}
	if err != nil {
		return nil, 0, false, errors.WrapWithCode(err, errors.ErrSettings,
			"Cannot read "+settingsPath,
			"Check file permissions")
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(settingsPath); err == nil {
		mode = info.Mode().Perm()
	}
	return raw, mode, true, nil
}

func malformed(err error) error {
	return errors.WrapWithCode(err, errors.ErrSettings,
		"settings.json is malformed JSON, aborting to avoid corruption",
		"Fix the file by hand or move it aside, then run again")
}

// encode marshals v without HTML escaping
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(buf.String(), "\n")), nil
}

// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package credentials

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	tooterrors "github.com/tootline/tootline/internal/errors"
)

// appDirName is the fixed application identifier the credential path is
// derived from. Never user input.
const appDirName = "tootline"

// credentialsFileName is the file the credential is stored in.
const credentialsFileName = "credentials.toml"

// Store reads and writes the credential file at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store for the given file path. Use DefaultPath for
// the standard per-user location.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the standard credential file location:
// <user config dir>/tootline/credentials.toml.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config directory: %w", err)
	}
	return filepath.Join(configDir, appDirName, credentialsFileName), nil
}

// Path returns the file path this store operates on.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the stored credential.
//
// A missing file yields ErrCredentialsNotFound, the expected first-run
// condition. A file that exists but cannot be parsed into a complete
// Credentials (bad TOML or any missing field) yields
// ErrCredentialsCorrupt. Load never returns a partially populated record.
func (s *Store) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", s.path, tooterrors.ErrCredentialsNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var creds Credentials
	if err := toml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing %s: %s: %w", s.path, err, tooterrors.ErrCredentialsCorrupt)
	}
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", s.path, err, tooterrors.ErrCredentialsCorrupt)
	}
	return &creds, nil
}

// Save validates and writes the credential, creating the enclosing
// directory if needed and overwriting any prior content. The write goes
// through a temp file and an atomic rename so a failure never leaves a
// half-written file readable by a subsequent Load.
func (s *Store) Save(creds *Credentials) error {
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("refusing to save incomplete credentials: %s: %w", err, tooterrors.ErrCredentialsIO)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %s: %w", dir, err, tooterrors.ErrCredentialsIO)
	}

	tempFile := s.path + ".tmp"
	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating temp credential file: %s: %w", err, tooterrors.ErrCredentialsIO)
	}

	if err := toml.NewEncoder(f).Encode(creds); err != nil {
		_ = f.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("encoding credentials: %s: %w", err, tooterrors.ErrCredentialsIO)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("syncing temp credential file: %s: %w", err, tooterrors.ErrCredentialsIO)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("closing temp credential file: %s: %w", err, tooterrors.ErrCredentialsIO)
	}

	if err := os.Rename(tempFile, s.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("renaming credential file: %s: %w", err, tooterrors.ErrCredentialsIO)
	}
	return nil
}

// Package credentials resolves realm-scoped and global credentials from
// environment-like sources.
//
// Resolution fails closed: a single missing key aborts the whole operation
// before any remote call, because a partial credential set would only fail
// later with a confusing remote error.
package credentials

import (
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/thomd/sfcc-cli-tools/internal/errors"
)

// Global credential keys.
const (
	KeyAPIUser     = "SFCC_API_USER"
	KeyAPIPassword = "SFCC_API_PASSWORD"
	KeyRepoToken   = "SFCC_REPO_TOKEN"
)

const realmKeyPrefix = "SFCC_REALM_"

// Realm-scoped key suffixes.
const (
	suffixID           = "_ID"
	suffixClientID     = "_CLIENT_ID"
	suffixClientSecret = "_CLIENT_SECRET"
)

// Source is a read-only credential source.
type Source interface {
	// Lookup returns the value for key and whether it is set.
	Lookup(key string) (string, bool)

	// Keys returns all keys present in the source.
	Keys() []string
}

// EnvSource reads credentials from the process environment, optionally
// merged with an env-format credentials file. File entries take precedence
// over the process environment.
type EnvSource struct {
	fileVars map[string]string
}

// NewEnvSource returns an EnvSource. credentialsFile may be empty or absent;
// only a malformed file is an error.
func NewEnvSource(credentialsFile string) (*EnvSource, error) {
	src := &EnvSource{fileVars: map[string]string{}}

	if credentialsFile != "" {
		vars, err := godotenv.Read(credentialsFile)
		if err != nil {
			if os.IsNotExist(err) {
				return src, nil
			}
			return nil, errors.ConfigError("failed to read credentials file", err)
		}
		src.fileVars = vars
	}
	return src, nil
}

func (s *EnvSource) Lookup(key string) (string, bool) {
	if v, ok := s.fileVars[key]; ok && v != "" {
		return v, true
	}
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *EnvSource) Keys() []string {
	seen := map[string]bool{}
	for k := range s.fileVars {
		seen[k] = true
	}
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			seen[kv[:i]] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StaticSource is a fixed in-memory source, used in tests.
type StaticSource map[string]string

func (s StaticSource) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok && v != ""
}

func (s StaticSource) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve looks up a single credential key, failing with MissingCredential
// when it is absent.
func Resolve(src Source, key string) (string, error) {
	v, ok := src.Lookup(key)
	if !ok {
		return "", errors.MissingCredential(key)
	}
	return v, nil
}

// realmKey builds the fully-qualified env key for a realm-scoped credential.
// Realm names are upper-cased with hyphens mapped to underscores.
func realmKey(realm, suffix string) string {
	name := strings.ToUpper(strings.ReplaceAll(realm, "-", "_"))
	return realmKeyPrefix + name + suffix
}

// RealmIDKey returns the key holding a realm's remote identifier.
func RealmIDKey(realm string) string { return realmKey(realm, suffixID) }

// ClientIDKey returns the key holding a realm's API client id.
func ClientIDKey(realm string) string { return realmKey(realm, suffixClientID) }

// ClientSecretKey returns the key holding a realm's API client secret.
func ClientSecretKey(realm string) string { return realmKey(realm, suffixClientSecret) }

// RealmInfo describes one realm found in the credential source.
type RealmInfo struct {
	Name     string
	Complete bool // all three realm-scoped keys are present
	Active   bool
}

// ListRealms enumerates realm names appearing in the source, marking the one
// matching activeRealm. Names are recovered from env keys, so a hyphenated
// realm lists with underscores; the active match compares normalized keys to
// stay insensitive to that mapping. A realm counts as complete only when its
// id, client id and client secret all resolve.
func ListRealms(src Source, activeRealm string) []RealmInfo {
	names := map[string]bool{}
	for _, key := range src.Keys() {
		if !strings.HasPrefix(key, realmKeyPrefix) {
			continue
		}
		rest := strings.TrimPrefix(key, realmKeyPrefix)
		for _, suffix := range []string{suffixClientSecret, suffixClientID, suffixID} {
			if strings.HasSuffix(rest, suffix) {
				names[strings.ToLower(strings.TrimSuffix(rest, suffix))] = true
				break
			}
		}
	}

	realms := make([]RealmInfo, 0, len(names))
	for name := range names {
		_, okID := src.Lookup(RealmIDKey(name))
		_, okCID := src.Lookup(ClientIDKey(name))
		_, okSec := src.Lookup(ClientSecretKey(name))
		realms = append(realms, RealmInfo{
			Name:     name,
			Complete: okID && okCID && okSec,
			Active:   RealmIDKey(name) == RealmIDKey(activeRealm),
		})
	}
	sort.Slice(realms, func(i, j int) bool { return realms[i].Name < realms[j].Name })
	return realms
}

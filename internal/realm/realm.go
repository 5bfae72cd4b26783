// Package realm resolves realms and sandbox aliases.
package realm

import (
	"fmt"
	"strconv"

	"github.com/thomd/sfcc-cli-tools/internal/credentials"
)

// Realm is a named tenant grouping of sandboxes with its own remote identity
// and API credentials. A Realm only exists once all three remote-facing
// attributes resolved; callers never see a partially populated one.
type Realm struct {
	Name         string
	ID           string
	ClientID     string
	ClientSecret string
}

// Resolve builds a Realm from the credential source. Any missing key fails
// the whole resolution with MissingCredential.
func Resolve(src credentials.Source, name string) (*Realm, error) {
	id, err := credentials.Resolve(src, credentials.RealmIDKey(name))
	if err != nil {
		return nil, err
	}
	clientID, err := credentials.Resolve(src, credentials.ClientIDKey(name))
	if err != nil {
		return nil, err
	}
	clientSecret, err := credentials.Resolve(src, credentials.ClientSecretKey(name))
	if err != nil {
		return nil, err
	}

	return &Realm{
		Name:         name,
		ID:           id,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}, nil
}

// SandboxAlias resolves a sandbox selection against a realm id. A numeric
// selection n becomes the realm-scoped alias <realmID>-nnn with three-digit
// zero padding; anything else is taken as an explicit alias.
func SandboxAlias(realmID, selection string) string {
	if n, err := strconv.Atoi(selection); err == nil && n >= 0 {
		return fmt.Sprintf("%s-%03d", realmID, n)
	}
	return selection
}

// Package auth holds the credential handling shared by the services. Users
// are stored with a bcrypt hash of their password; plaintext never reaches
// the durable store.
package auth

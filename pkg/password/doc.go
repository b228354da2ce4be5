// Package password hashes and verifies user credentials with bcrypt.
//
// It is the credential-verification collaborator consumed by login handlers;
// the session core never sees plaintext passwords or hashes.
package password

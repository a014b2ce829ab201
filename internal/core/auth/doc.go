// Package auth holds the credential-and-authorization core: bcrypt password
// hashing, HS256 token issuance and verification, and the role/operation
// authorization rule.
package auth

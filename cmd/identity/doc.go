// Package identity owns bombay's user accounts: the User record, its stores,
// and password hashing for credentials.
//
// The session subsystem reads users through Store; users are only created
// administratively (cmd/bombay-user, dev seeding).
package identity

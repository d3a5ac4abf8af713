// Package password hashes and verifies account passwords for bombay.
//
// New hashes are Argon2id in the PHC-like form
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt>$<key>. Verification also
// accepts bcrypt hashes so accounts imported from older databases keep
// working until their next password change.
//
// Encoded hashes are untrusted input: Verify refuses parameters far above the
// configured cost before doing any work.
package password

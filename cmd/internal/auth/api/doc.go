// Package authapi exposes the session lifecycle over HTTP: /login (POST
// login, GET status, PUT refresh), /logout, and the RequireLogin gate for
// every other protected route. Tokens travel in the Authorization header.
package authapi

// Package main provides the entry point of clubdesk, the booking backend for
// clubs, their halls and seats. It serves a JSON API with fiber, persists
// data with gorm and authorizes every request against role permission
// matrices restricted by global, club or self scope.
package main

// Package main is the emailcheck command, a syntax checker for email
// addresses.
//
// Addresses are taken from the command line, or from stdin (one per
// line) when no arguments are given. Valid addresses print their
// parsed forms as JSON on stdout; invalid ones print the address and
// the reason, also on stdout, one line per address.
//
// Usage:
//
//	emailcheck user@example.com jeff@臺網中心.tw
//
//	cat addresses.txt | emailcheck
//
// Exit status is non-zero when any address fails validation.
package main

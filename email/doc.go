// Package email validates the syntax of email addresses.
//
// Validate checks an address against RFC 5322 dot-atom rules for the
// local part and IDNA 2008 rules for the domain, producing both the
// display and ASCII forms. Deliverability (DNS, mailbox existence) is
// out of scope.
package email

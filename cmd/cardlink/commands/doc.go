// Package commands defines the cardlink CLI and wires dependencies for subcommands.
//
// Commands
//
//   - pair       Link to a session, relay the card and take the verification code
//   - run        Interactive session driven by scan/send/code lines on stdin
//   - card init  Write a card details template to fill in
//
// # Implementation
//
// The root command loads configuration (file, environment, then flags) and
// builds the logger before any subcommand runs. Session commands build a
// fresh app.Wire: linking state lives only in the process, so one command
// carries a session from scan to verification code.
package commands

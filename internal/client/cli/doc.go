// Package cli implements the interactive menu client.
//
// The App owns the signed-in session and the pending two-step workflow for
// the lifetime of the process. Each menu option prompts for its input on
// stdin, calls the remote functions through services.Accounts and prints
// the outcome. Failures are reported and the menu is shown again.
//
// Menu lines 3 and 4 change with the workflow state: after step 1 of a
// registration or password reset they offer to finish it.
package cli
